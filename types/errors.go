package types

import "fmt"

type NoStaticSize struct {
	Type DataType
}

func (e NoStaticSize) Error() string {
	return fmt.Sprintf("type %s has no static size", e.Type)
}

type DivisionByZero struct {
	Dividend Number
}

func (e DivisionByZero) Error() string {
	return fmt.Sprintf("division of %s by zero", e.Dividend)
}

type LiteralOutOfRange struct {
	Literal LiteralValue
	Type    DataType
}

func (e LiteralOutOfRange) Error() string {
	return fmt.Sprintf("literal %s does not fit in type %s", e.Literal, e.Type)
}

type LiteralTypeMismatch struct {
	Literal LiteralValue
	Type    DataType
}

func (e LiteralTypeMismatch) Error() string {
	return fmt.Sprintf("literal %s cannot be encoded as type %s", e.Literal, e.Type)
}
