package insertvalues

import (
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"

	"github.com/johnswan/ksql/ksql"
)

// coerceLiteral implements spec.md §4.6's literal coercion: decimal-widening,
// integer-widening, string-to-nothing (a STRING literal coerces to nothing
// but STRING; there is no implicit parse-from-string path here, unlike a
// CAST expression). An untyped NULL literal coerces to nil under any target
// type. Grounded on the runtime value representation codegen/numeric.go
// established (int32/int64/float64/string/decimal.Decimal/bool).
func coerceLiteral(value interface{}, src, dst ksql.SqlType, column ksql.ColumnName) (interface{}, error) {
	if value == nil {
		return nil, nil
	}

	if src.Equals(dst) {
		return value, nil
	}

	switch dst.Kind() {
	case ksql.KindBigInt:
		if i, ok := asInt64(value, src); ok {
			return i, nil
		}
	case ksql.KindDouble:
		if f, ok := asFloat64(value, src); ok {
			return f, nil
		}
	case ksql.KindDecimal:
		if d, ok := asDecimal(value, src); ok {
			return d.Truncate(int32(dst.Scale())), nil
		}
	case ksql.KindInteger:
		// No implicit narrowing (BIGINT/DOUBLE/DECIMAL -> INTEGER): only an
		// exact-kind match passes, already handled above.
	}

	return nil, ksql.ErrInsertTypeMismatch.New(column.Text(), src.String(), dst.String())
}

// asInt64/asFloat64/asDecimal gate on src.Kind() (only the widenings
// spec.md §4.6 allows), then delegate the actual interface{}-to-numeric
// conversion to spf13/cast rather than a manual type assertion per case,
// the same conversion library the teacher imports in sql/numbertype.go and
// sql/textbintype.go for this exact job.
func asInt64(value interface{}, src ksql.SqlType) (int64, bool) {
	switch src.Kind() {
	case ksql.KindInteger, ksql.KindBigInt:
		i, err := cast.ToInt64E(value)
		return i, err == nil
	default:
		return 0, false
	}
}

func asFloat64(value interface{}, src ksql.SqlType) (float64, bool) {
	switch src.Kind() {
	case ksql.KindInteger, ksql.KindBigInt, ksql.KindDouble:
		f, err := cast.ToFloat64E(value)
		return f, err == nil
	default:
		return 0, false
	}
}

func asDecimal(value interface{}, src ksql.SqlType) (decimal.Decimal, bool) {
	switch src.Kind() {
	case ksql.KindInteger, ksql.KindBigInt:
		i, err := cast.ToInt64E(value)
		if err != nil {
			return decimal.Decimal{}, false
		}
		return decimal.NewFromInt(i), true
	case ksql.KindDecimal:
		d, ok := value.(decimal.Decimal)
		return d, ok
	default:
		return decimal.Decimal{}, false
	}
}
