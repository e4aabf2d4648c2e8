package main

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/aptos-labs/aptos-core-sub004/pkg/file"
)

func newDisasmCommand() cli.Command {
	return cli.Command{
		Name:      "disasm",
		Usage:     "print a mnemonic listing of a code unit's opcode stream",
		ArgsUsage: "<hex-or-base64>",
		Flags: []cli.Flag{
			cli.BoolFlag{Name: "base64", Usage: "decode the argument as base64 instead of hex"},
		},
		Action: runDisasm,
	}
}

// decodeOpcodeStream is the stub loader: no real binary format is parsed
// here (per the Non-goals, this repository ships no bytecode
// deserializer). Each input byte is read directly as a file.Op, enough to
// exercise a mnemonic listing over a hand-supplied opcode stream without
// operand decoding.
func decodeOpcodeStream(raw []byte) file.CodeUnit {
	code := make([]file.Bytecode, len(raw))
	for i, b := range raw {
		code[i] = file.Bytecode{Op: file.Op(b)}
	}
	return file.CodeUnit{Code: code}
}

func runDisasm(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.NewExitError("usage: movevm disasm [--base64] <hex-or-base64>", 1)
	}
	arg := c.Args().First()

	var raw []byte
	var err error
	if c.Bool("base64") {
		raw, err = base64.StdEncoding.DecodeString(arg)
	} else {
		raw, err = hex.DecodeString(arg)
	}
	if err != nil {
		return errors.Wrap(err, "movevm: decoding code unit argument")
	}

	unit := decodeOpcodeStream(raw)
	for offset, instr := range unit.Code {
		fmt.Fprintf(c.App.Writer, "%4d: %s\n", offset, mnemonic(instr.Op))
	}
	return nil
}

// mnemonic renders an Op's textual name from opMnemonics. Opcodes missing
// from that table (field and variant borrows, the Generic forms, the
// variant opcodes, PackClosureGeneric) print as Op(n).
func mnemonic(op file.Op) string {
	if name, ok := opMnemonics[op]; ok {
		return name
	}
	return fmt.Sprintf("Op(%d)", op)
}

var opMnemonics = map[file.Op]string{
	file.OpPop: "Pop", file.OpLdU8: "LdU8", file.OpLdU16: "LdU16", file.OpLdU32: "LdU32",
	file.OpLdU64: "LdU64", file.OpLdU128: "LdU128", file.OpLdU256: "LdU256",
	file.OpLdTrue: "LdTrue", file.OpLdFalse: "LdFalse", file.OpLdConst: "LdConst",
	file.OpCopyLoc: "CopyLoc", file.OpMoveLoc: "MoveLoc", file.OpStLoc: "StLoc",
	file.OpRet: "Ret", file.OpAbort: "Abort", file.OpBrTrue: "BrTrue", file.OpBrFalse: "BrFalse",
	file.OpBranch: "Branch", file.OpCall: "Call", file.OpCallGeneric: "CallGeneric",
	file.OpReadRef: "ReadRef", file.OpWriteRef: "WriteRef", file.OpFreezeRef: "FreezeRef",
	file.OpMutBorrowLoc: "MutBorrowLoc", file.OpImmBorrowLoc: "ImmBorrowLoc",
	file.OpPack: "Pack", file.OpUnpack: "Unpack",
	file.OpAdd: "Add", file.OpSub: "Sub", file.OpMul: "Mul", file.OpMod: "Mod", file.OpDiv: "Div",
	file.OpBitOr: "BitOr", file.OpBitAnd: "BitAnd", file.OpXor: "Xor", file.OpShl: "Shl", file.OpShr: "Shr",
	file.OpOr: "Or", file.OpAnd: "And", file.OpNot: "Not",
	file.OpEq: "Eq", file.OpNeq: "Neq", file.OpLt: "Lt", file.OpGt: "Gt", file.OpLe: "Le", file.OpGe: "Ge",
	file.OpCastU8: "CastU8", file.OpCastU16: "CastU16", file.OpCastU32: "CastU32",
	file.OpCastU64: "CastU64", file.OpCastU128: "CastU128", file.OpCastU256: "CastU256",
	file.OpMutBorrowGlobal: "MutBorrowGlobal", file.OpImmBorrowGlobal: "ImmBorrowGlobal",
	file.OpExists: "Exists", file.OpMoveFrom: "MoveFrom", file.OpMoveTo: "MoveTo",
	file.OpVecPack: "VecPack", file.OpVecLen: "VecLen", file.OpVecImmBorrow: "VecImmBorrow",
	file.OpVecMutBorrow: "VecMutBorrow", file.OpVecPushBack: "VecPushBack", file.OpVecPopBack: "VecPopBack",
	file.OpVecUnpack: "VecUnpack", file.OpVecSwap: "VecSwap",
	file.OpPackClosure: "PackClosure", file.OpCallClosure: "CallClosure", file.OpNop: "Nop",
}
