package ir

// Operands splits a two-operand operator into its parts. ok is false for
// every other operator.
func Operands(op Operator) (target Tn, left, right Value, ok bool) {
	switch o := op.(type) {
	case Add:
		return o.Target, o.Left, o.Right, true
	case Sub:
		return o.Target, o.Left, o.Right, true
	case Mul:
		return o.Target, o.Left, o.Right, true
	case Div:
		return o.Target, o.Left, o.Right, true
	case Mod:
		return o.Target, o.Left, o.Right, true
	case Greater:
		return o.Target, o.Left, o.Right, true
	case Less:
		return o.Target, o.Left, o.Right, true
	case GreaterEqual:
		return o.Target, o.Left, o.Right, true
	case LessEqual:
		return o.Target, o.Left, o.Right, true
	case Equal:
		return o.Target, o.Left, o.Right, true
	case NotEqual:
		return o.Target, o.Left, o.Right, true
	case BitShiftLeft:
		return o.Target, o.Left, o.Right, true
	case BitShiftRight:
		return o.Target, o.Left, o.Right, true
	case BitAnd:
		return o.Target, o.Left, o.Right, true
	case BitOr:
		return o.Target, o.Left, o.Right, true
	case BitXor:
		return o.Target, o.Left, o.Right, true
	}
	return Tn{}, nil, nil, false
}

// IsComparison reports whether op produces a bool from two operands.
func IsComparison(op Operator) bool {
	switch op.(type) {
	case Greater, Less, GreaterEqual, LessEqual, Equal, NotEqual:
		return true
	}
	return false
}

// Defines returns the temporary op writes.
func Defines(op Operator) (Tn, bool) {
	if target, _, _, ok := Operands(op); ok {
		return target, true
	}
	switch o := op.(type) {
	case BitNot:
		return o.Target, true
	case Assign:
		return o.Target, true
	case Deref:
		return o.Target, true
	case Ref:
		return o.Target, true
	case Copy:
		return o.Target, true
	case Call:
		if o.Target != nil {
			return *o.Target, true
		}
	}
	return Tn{}, false
}

// Uses returns the values op reads, in evaluation order.
func Uses(op Operator) []Value {
	if _, left, right, ok := Operands(op); ok {
		return []Value{left, right}
	}
	switch o := op.(type) {
	case BitNot:
		return []Value{o.Operand}
	case Assign:
		return []Value{o.Source}
	case Deref:
		return []Value{o.Ref}
	case Ref:
		return []Value{o.Ref}
	case Copy:
		return []Value{o.Source}
	case DerefAssign:
		return []Value{o.Target, o.Source}
	case DerefCopy:
		return []Value{o.Target, o.Source}
	case JumpIf:
		return []Value{o.Condition}
	case JumpIfNot:
		return []Value{o.Condition}
	case Call:
		return o.Args
	case Return:
		if o.Value != nil {
			return []Value{o.Value}
		}
	}
	return nil
}

// Temporaries returns the temporaries op touches, written or read.
func Temporaries(op Operator) []Tn {
	var tns []Tn
	if t, ok := Defines(op); ok {
		tns = append(tns, t)
	}
	for _, v := range Uses(op) {
		if t, ok := v.(Tn); ok {
			tns = append(tns, t)
		}
	}
	return tns
}

// Mnemonic names a two-operand operator as the textual IR spells it.
func Mnemonic(op Operator) string {
	switch op.(type) {
	case Add:
		return "add"
	case Sub:
		return "sub"
	case Mul:
		return "mul"
	case Div:
		return "div"
	case Mod:
		return "mod"
	case Greater:
		return "gt"
	case Less:
		return "lt"
	case GreaterEqual:
		return "ge"
	case LessEqual:
		return "le"
	case Equal:
		return "eq"
	case NotEqual:
		return "ne"
	case BitShiftLeft:
		return "shl"
	case BitShiftRight:
		return "shr"
	case BitAnd:
		return "and"
	case BitOr:
		return "or"
	case BitXor:
		return "xor"
	}
	return ""
}
