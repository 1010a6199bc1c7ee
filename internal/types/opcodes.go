package types

import (
	"strconv"
	"strings"
)

// Opcode is a JVM instruction opcode
type Opcode uint8

// Opcodes referenced by name in the classifier and the snapshot loader.
const (
	OpNop             Opcode = 0
	OpBipush          Opcode = 16
	OpSipush          Opcode = 17
	OpLdc             Opcode = 18
	OpIload           Opcode = 21
	OpIinc            Opcode = 132
	OpIfeq            Opcode = 153
	OpGoto            Opcode = 167
	OpTableswitch     Opcode = 170
	OpLookupswitch    Opcode = 171
	OpGetstatic       Opcode = 178
	OpPutstatic       Opcode = 179
	OpGetfield        Opcode = 180
	OpPutfield        Opcode = 181
	OpInvokevirtual   Opcode = 182
	OpInvokespecial   Opcode = 183
	OpInvokestatic    Opcode = 184
	OpInvokeinterface Opcode = 185
	OpInvokedynamic   Opcode = 186
	OpNew             Opcode = 187
	OpNewarray        Opcode = 188
	OpAnewarray       Opcode = 189
	OpCheckcast       Opcode = 192
	OpInstanceof      Opcode = 193
	OpMultianewarray  Opcode = 197
	OpIfnull          Opcode = 198
	OpIfnonnull       Opcode = 199
)

var opcodeNames = map[Opcode]string{
	0: "nop", 1: "aconst_null", 2: "iconst_m1", 3: "iconst_0", 4: "iconst_1", 5: "iconst_2",
	6: "iconst_3", 7: "iconst_4", 8: "iconst_5", 9: "lconst_0", 10: "lconst_1", 11: "fconst_0",
	12: "fconst_1", 13: "fconst_2", 14: "dconst_0", 15: "dconst_1", 16: "bipush", 17: "sipush",
	18: "ldc", 21: "iload", 22: "lload", 23: "fload", 24: "dload", 25: "aload",
	46: "iaload", 47: "laload", 48: "faload", 49: "daload", 50: "aaload", 51: "baload",
	52: "caload", 53: "saload", 54: "istore", 55: "lstore", 56: "fstore", 57: "dstore",
	58: "astore", 79: "iastore", 80: "lastore", 81: "fastore", 82: "dastore", 83: "aastore",
	84: "bastore", 85: "castore", 86: "sastore", 87: "pop", 88: "pop2", 89: "dup",
	90: "dup_x1", 91: "dup_x2", 92: "dup2", 93: "dup2_x1", 94: "dup2_x2", 95: "swap",
	96: "iadd", 97: "ladd", 98: "fadd", 99: "dadd", 100: "isub", 101: "lsub", 102: "fsub",
	103: "dsub", 104: "imul", 105: "lmul", 106: "fmul", 107: "dmul", 108: "idiv", 109: "ldiv",
	110: "fdiv", 111: "ddiv", 112: "irem", 113: "lrem", 114: "frem", 115: "drem", 116: "ineg",
	117: "lneg", 118: "fneg", 119: "dneg", 120: "ishl", 121: "lshl", 122: "ishr", 123: "lshr",
	124: "iushr", 125: "lushr", 126: "iand", 127: "land", 128: "ior", 129: "lor", 130: "ixor",
	131: "lxor", 132: "iinc", 133: "i2l", 134: "i2f", 135: "i2d", 136: "l2i", 137: "l2f",
	138: "l2d", 139: "f2i", 140: "f2l", 141: "f2d", 142: "d2i", 143: "d2l", 144: "d2f",
	145: "i2b", 146: "i2c", 147: "i2s", 148: "lcmp", 149: "fcmpl", 150: "fcmpg", 151: "dcmpl",
	152: "dcmpg", 153: "ifeq", 154: "ifne", 155: "iflt", 156: "ifge", 157: "ifgt", 158: "ifle",
	159: "if_icmpeq", 160: "if_icmpne", 161: "if_icmplt", 162: "if_icmpge", 163: "if_icmpgt",
	164: "if_icmple", 165: "if_acmpeq", 166: "if_acmpne", 167: "goto", 168: "jsr", 169: "ret",
	170: "tableswitch", 171: "lookupswitch", 172: "ireturn", 173: "lreturn", 174: "freturn",
	175: "dreturn", 176: "areturn", 177: "return", 178: "getstatic", 179: "putstatic",
	180: "getfield", 181: "putfield", 182: "invokevirtual", 183: "invokespecial",
	184: "invokestatic", 185: "invokeinterface", 186: "invokedynamic", 187: "new",
	188: "newarray", 189: "anewarray", 190: "arraylength", 191: "athrow", 192: "checkcast",
	193: "instanceof", 194: "monitorenter", 195: "monitorexit", 197: "multianewarray",
	198: "ifnull", 199: "ifnonnull",
}

var opcodesByName = func() map[string]Opcode {
	m := make(map[string]Opcode, len(opcodeNames))
	for op, name := range opcodeNames {
		m[name] = op
	}
	return m
}()

// String returns the mnemonic, or "op<n>" for unassigned values
func (o Opcode) String() string {
	if name, ok := opcodeNames[o]; ok {
		return name
	}
	return "op" + strconv.Itoa(int(o))
}

// LookupOpcode resolves a mnemonic (case-insensitive)
func LookupOpcode(name string) (Opcode, bool) {
	op, ok := opcodesByName[strings.ToLower(name)]
	return op, ok
}

// IsFieldRead reports getfield/getstatic
func (o Opcode) IsFieldRead() bool {
	return o == OpGetfield || o == OpGetstatic
}

// IsFieldWrite reports putfield/putstatic
func (o Opcode) IsFieldWrite() bool {
	return o == OpPutfield || o == OpPutstatic
}

// InsnKind returns the instruction variant that carries this opcode's operands.
// invokedynamic has no resolvable owner and is treated as operand-less.
func (o Opcode) InsnKind() InsnKind {
	switch {
	case o == OpBipush || o == OpSipush || o == OpNewarray:
		return InsnInt
	case o >= OpIload && o <= 25, o >= 54 && o <= 58, o == 169:
		return InsnVar
	case o == OpNew || o == OpAnewarray || o == OpCheckcast || o == OpInstanceof:
		return InsnType
	case o >= OpGetstatic && o <= OpPutfield:
		return InsnField
	case o >= OpInvokevirtual && o <= OpInvokeinterface:
		return InsnMethod
	case o >= OpIfeq && o <= 168, o == OpIfnull || o == OpIfnonnull:
		return InsnJump
	case o == OpLdc:
		return InsnLdc
	case o == OpIinc:
		return InsnIinc
	case o == OpTableswitch:
		return InsnTableSwitch
	case o == OpLookupswitch:
		return InsnLookupSwitch
	case o == OpMultianewarray:
		return InsnMultiANewArray
	}
	return InsnSimple
}
