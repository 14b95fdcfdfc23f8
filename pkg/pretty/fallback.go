package pretty

import (
	"fmt"

	"github.com/XtremeXSPC/dsviz/pkg/target"
	"github.com/XtremeXSPC/dsviz/pkg/typeinfo"
)

// fallbackSummary is the rendering of last resort for layouts nothing
// recognized: scalars print their value, structs a brief field list.
// It never fails; whatever cannot be read becomes a bracketed marker.
func fallbackSummary(v *target.Variable, opts *Options) string {
	if v.Kind() == typeinfo.Struct {
		return fmt.Sprintf("%s %s", v.TypeName(), briefStructSummary(v, opts))
	}
	return valueSummary(v, opts)
}
