package terminal

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/XtremeXSPC/dsviz/pkg/config"
)

func configureCmd(t *Term, args string) error {
	switch args {
	case "-list":
		return configureList(t)
	case "-save":
		return config.SaveConfig(t.conf)
	case "":
		return fmt.Errorf("wrong number of arguments to \"config\"")
	default:
		return configureSet(t, args)
	}
}

type configureIterator struct {
	cfgValue reflect.Value
	cfgType  reflect.Type
	i        int
}

func iterateConfiguration(conf *config.Config) *configureIterator {
	cfgValue := reflect.ValueOf(conf).Elem()
	cfgType := cfgValue.Type()

	return &configureIterator{cfgValue, cfgType, -1}
}

func (it *configureIterator) Next() bool {
	it.i++
	return it.i < it.cfgValue.NumField()
}

func (it *configureIterator) Field() (name string, field reflect.Value) {
	name = it.cfgType.Field(it.i).Tag.Get("yaml")
	if comma := strings.Index(name, ","); comma >= 0 {
		name = name[:comma]
	}
	field = it.cfgValue.Field(it.i)
	return
}

func configureFindFieldByName(conf *config.Config, name string) reflect.Value {
	it := iterateConfiguration(conf)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == name {
			return field
		}
	}
	return reflect.ValueOf(nil)
}

func configureList(t *Term) error {
	w := new(tabwriter.Writer)
	w.Init(t.stdout, 0, 8, 1, ' ', 0)

	it := iterateConfiguration(t.conf)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == "" {
			continue
		}

		if field.Kind() == reflect.Ptr {
			if !field.IsNil() {
				fmt.Fprintf(w, "%s\t%v\n", fieldName, field.Elem())
			} else {
				fmt.Fprintf(w, "%s\t<not defined>\n", fieldName)
			}
		} else {
			fmt.Fprintf(w, "%s\t%v\n", fieldName, field)
		}
	}
	return w.Flush()
}

func split2PartsBySpace(s string) []string {
	v := strings.SplitN(s, " ", 2)
	for i := range v {
		v[i] = strings.TrimSpace(v[i])
	}
	return v
}

func configureSet(t *Term, args string) error {
	v := split2PartsBySpace(args)

	cfgname := v[0]
	var rest string
	if len(v) == 2 {
		rest = v[1]
	}

	if cfgname == "aliases" {
		return configureSetAlias(t, rest)
	}

	field := configureFindFieldByName(t.conf, cfgname)
	if !field.CanAddr() {
		return fmt.Errorf("%q is not a configuration parameter", cfgname)
	}

	return configureSetSimpleValue(field, cfgname, rest)
}

func configureSetSimpleValue(field reflect.Value, cfgname, rest string) error {
	simpleArg := func(typ reflect.Type) (reflect.Value, error) {
		switch typ.Kind() {
		case reflect.Int:
			n, err := strconv.Atoi(rest)
			if err != nil {
				return reflect.ValueOf(nil), fmt.Errorf("argument to %q must be a number", cfgname)
			}
			return reflect.ValueOf(&n).Elem().Convert(typ), nil
		case reflect.Bool:
			v := rest == "true"
			return reflect.ValueOf(&v).Elem(), nil
		case reflect.String:
			return reflect.ValueOf(&rest).Elem(), nil
		default:
			return reflect.ValueOf(nil), fmt.Errorf("unsupported type for configuration parameter %q", cfgname)
		}
	}
	switch field.Kind() {
	case reflect.Ptr:
		val, err := simpleArg(field.Type().Elem())
		if err != nil {
			return err
		}
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().Set(val)
		field.Set(ptr)
	default:
		val, err := simpleArg(field.Type())
		if err != nil {
			return err
		}
		field.Set(val)
	}
	return nil
}

// configureSetAlias puts "config aliases <alias> <command>" into the
// aliases map and re-merges the command table.
func configureSetAlias(t *Term, rest string) error {
	v := split2PartsBySpace(rest)
	if len(v) != 2 || v[1] == "" {
		return fmt.Errorf("wrong number of arguments to \"config aliases\"")
	}
	alias, command := v[0], v[1]
	if t.conf.Aliases == nil {
		t.conf.Aliases = make(map[string][]string)
	}
	t.conf.Aliases[command] = append(t.conf.Aliases[command], alias)
	t.cmds.Merge(t.conf.Aliases)
	return nil
}
