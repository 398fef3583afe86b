package transform

import "dml-mapper/internal/mapping"

func builtinTransforms() []Def {
	return []Def{
		{Name: "upper", Func: "Upper", Result: mapping.TypeString, Summary: "upper-case the value"},
		{Name: "lower", Func: "Lower", Result: mapping.TypeString, Summary: "lower-case the value"},
		{Name: "trim", Func: "Trim", MaxArgs: 1, Result: mapping.TypeString,
			Summary: "strip surrounding whitespace, or the given cutset"},
		{Name: "substring", Func: "Substring", MinArgs: 1, MaxArgs: 2, Result: mapping.TypeString,
			Summary: "slice by rune index; negative indices count from the end"},
		{Name: "replace", Func: "Replace", MinArgs: 2, MaxArgs: 2, Result: mapping.TypeString,
			Summary: "replace every occurrence of old with new"},
		{Name: "format_number", Func: "FormatNumber", MinArgs: 1, MaxArgs: 1, Result: mapping.TypeString,
			Summary: `format with a pattern such as "#,##0.00" or "000000.00"`},
		{Name: "round", Func: "Round", MaxArgs: 1, Result: mapping.TypeDecimal,
			Summary: "round half away from zero to the given places"},
		{Name: "format_date", Func: "FormatDate", MinArgs: 1, MaxArgs: 2, Result: mapping.TypeString,
			Summary: "reformat a date with YYYY MM DD HH mm ss tokens"},
		{Name: "convert_timezone", Func: "ConvertTimezone", MinArgs: 2, MaxArgs: 3, Result: mapping.TypeString,
			Summary: "reinterpret a timestamp from one IANA zone in another"},
		{Name: "ifelse", Func: "IfElse", MinArgs: 3, MaxArgs: 3, Result: mapping.TypeUnknown,
			Summary: "then if the value equals match, else otherwise"},
		{Name: "concat", Func: "Concat", MaxArgs: Variadic, Result: mapping.TypeString,
			Summary: "join the value and every argument"},
		{Name: "int", Func: "Int", Result: mapping.TypeInteger, Summary: "truncate to an integer"},
		{Name: "float", Func: "Float", Result: mapping.TypeDecimal, Summary: "convert to a decimal"},
	}
}
