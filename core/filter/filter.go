package filter

import (
	"github.com/goto/sieve/core/validator"
)

type Operator string

const (
	OperatorEquals     Operator = "equals"
	OperatorContains   Operator = "contains"
	OperatorGT         Operator = "gt"
	OperatorLT         Operator = "lt"
	OperatorGTE        Operator = "gte"
	OperatorLTE        Operator = "lte"
	OperatorBetween    Operator = "between"
	OperatorIn         Operator = "in"
	OperatorNotIn      Operator = "notIn"
	OperatorStartsWith Operator = "startsWith"
	OperatorEndsWith   Operator = "endsWith"
	OperatorBefore     Operator = "before"
	OperatorAfter      Operator = "after"
	OperatorRegex      Operator = "regex"
)

// AllOperators lists every supported operator in declaration order.
var AllOperators = []Operator{
	OperatorEquals, OperatorContains,
	OperatorGT, OperatorLT, OperatorGTE, OperatorLTE, OperatorBetween,
	OperatorIn, OperatorNotIn,
	OperatorStartsWith, OperatorEndsWith,
	OperatorBefore, OperatorAfter,
	OperatorRegex,
}

// Filter is a single structured predicate over one record field.
type Filter struct {
	Field    string      `json:"field" yaml:"field" validate:"required"`
	Operator Operator    `json:"operator" yaml:"operator" validate:"required,oneof=equals contains gt lt gte lte between in notIn startsWith endsWith before after regex"`
	Value    interface{} `json:"value" yaml:"value"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty"`
}

func (f Filter) Validate() error {
	return validator.ValidateStruct(f)
}
