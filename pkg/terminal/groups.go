package terminal

type commandGroup uint8

const (
	otherCmds commandGroup = iota
	dataCmds
	exportCmds
	configCmds
)

type commandGroupDescription struct {
	description string
	group       commandGroup
}

var commandGroupDescriptions = []commandGroupDescription{
	{"Viewing data structures", dataCmds},
	{"Exporting and visualizing", exportCmds},
	{"Configuration and scripting", configCmds},
	{"Other commands", otherCmds},
}
