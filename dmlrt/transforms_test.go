package dmlrt

import (
	"testing"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransforms(t *testing.T) {
	tests := []struct {
		name string
		fn   func(any, ...any) (any, error)
		v    any
		args []any
		want any
	}{
		{"upper", Upper, "abc", nil, "ABC"},
		{"lower", Lower, "AbC", nil, "abc"},
		{"trim", Trim, "  x ", nil, "x"},
		{"trim cutset", Trim, "--x--", []any{"-"}, "x"},
		{"substring", Substring, "abcdef", []any{int64(1), int64(3)}, "bc"},
		{"substring from end", Substring, "abcdef", []any{int64(-2)}, "ef"},
		{"substring clamps", Substring, "abc", []any{int64(1), int64(10)}, "bc"},
		{"replace", Replace, "a-b-c", []any{"-", "/"}, "a/b/c"},
		{"format_number grouping", FormatNumber, 1234567.891, []any{"#,##0.00"}, "1,234,567.89"},
		{"format_number padding", FormatNumber, "12.5", []any{"000000.00"}, "000012.50"},
		{"format_number negative", FormatNumber, -1234.5, []any{"#,##0.00"}, "-1,234.50"},
		{"format_number prefix", FormatNumber, int64(5), []any{"$0.00"}, "$5.00"},
		{"round digits", Round, 1.25, []any{int64(1)}, 1.3},
		{"round to integer", Round, "7.5", nil, int64(8)},
		{"format_date", FormatDate, "2024-03-05", []any{"DD/MM/YYYY"}, "05/03/2024"},
		{"format_date input layout", FormatDate, "05.03.2024", []any{"YYYY-MM-DD", "DD.MM.YYYY"}, "2024-03-05"},
		{"format_date strftime", FormatDate, "2024-03-05 14:30:00", []any{"%H:%M"}, "14:30"},
		{
			"convert_timezone", ConvertTimezone, "2024-01-15 12:00:00",
			[]any{"UTC", "America/New_York"}, "2024-01-15 07:00:00",
		},
		{"ifelse match", IfElse, "A", []any{"A", "active", "inactive"}, "active"},
		{"ifelse no match", IfElse, "B", []any{"A", "active", "inactive"}, "inactive"},
		{"concat skips nil", Concat, "a", []any{"b", nil, int64(1)}, "ab1"},
		{"int truncates", Int, "12.9", nil, int64(12)},
		{"float", Float, "2", nil, 2.0},
		{"nil passes through", Upper, nil, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fn(tt.v, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTransforms_Errors(t *testing.T) {
	_, err := FormatNumber("abc", "#,##0.00")
	require.Error(t, err)

	_, err = FormatDate("not a date", "YYYY")
	require.Error(t, err)

	_, err = ConvertTimezone("2024-01-15 12:00:00", "UTC", "Mars/Olympus")
	require.Error(t, err)

	_, err = Int("x")
	require.Error(t, err)
}
