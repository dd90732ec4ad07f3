// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/chip8/internal"
	"github.com/ezrec/chip8/memory"
)

// Macro represents a macro definition in the assembly language.
type Macro struct {
	LineNo int      // Line number of the macro definition.
	Args   []string // Arguments for the macro.
	Lines  []string // Lines of macro text to expand.
}

// sysEquate returns the predefined system equates.
func sysEquate() (equ map[string]string) {
	equ = map[string]string{"LINENO": "0"}
	for key, value := range internal.Concat2(memory.Defines(), maps.All(_cpu_defines)) {
		equ[key] = value
	}
	return
}

// Assembler is a single pass macro assembler for CHIP-8 programs.
type Assembler struct {
	Verbose bool     // If set, verbosely logs the assembler actions.
	Opcode  []Opcode // List of generated opcodes.

	predefine map[string]string   // Predefines
	Label     map[string]int      // Map of labels to addresses.
	Equate    map[string]string   // Map of equates.
	Macro     map[string](*Macro) // Map of macros.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// valueOf returns the value of a numeric word, range checked to
// [-(limit+1)/2, limit]. Negative values are two's complement.
func (asm *Assembler) valueOf(word string, limit uint32) (value uint32, err error) {
	v64, err := strconv.ParseInt(word, 0, 33)
	if err != nil {
		err = ErrParseNumber(word)
		return
	}

	if v64 > int64(limit) || v64 < -int64(limit/2)-1 {
		err = fmt.Errorf("%w: %v", ErrValueRange, word)
		return
	}

	value = uint32(v64) & limit
	return
}

// registerOf returns the index of a V register word.
func registerOf(word string) (reg uint8, ok bool) {
	if len(word) != 2 || (word[0] != 'V' && word[0] != 'v') {
		return
	}

	n, err := strconv.ParseUint(word[1:], 16, 4)
	if err != nil {
		return
	}

	reg, ok = uint8(n), true
	return
}

// isLabel returns true if word can name a label.
var isLabel = regexp.MustCompile(`^[A-Za-z_.@][A-Za-z0-9_.@]*$`).MatchString

// addressOf decodes a 12-bit address operand. Names that are not yet
// defined are returned as a label to link at the end of the pass.
func (asm *Assembler) addressOf(word string) (addr uint16, label string, err error) {
	if ip, ok := asm.Label[word]; ok {
		addr = uint16(ip)
		return
	}

	if isLabel(word) {
		label = word
		return
	}

	value, err := asm.valueOf(word, 0xfff)
	if err != nil {
		return
	}

	addr = uint16(value)
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		v64, perr := strconv.ParseInt(str, 0, 64)
		if perr != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			continue
		}
		pred[key] = starlark.MakeInt64(v64)
	}
	for key, addr := range asm.Label {
		if _, ok := pred[key]; !ok {
			pred[key] = starlark.MakeInt(addr)
		}
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

var (
	reParen = regexp.MustCompile(`\$\([^\$]*\)`)
	reChar  = regexp.MustCompile(`'[^']'`)
)

// parseLine parses a single line as an opcode.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do 'x' evaluations
	line = reChar.ReplaceAllStringFunc(line, func(word string) string {
		return fmt.Sprintf("%v", word[1])
	})

	// Do $() evaluations
	line = reParen.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for n, word := range words {
		equate, ok := asm.Equate[word]
		if ok {
			words[n] = equate
		}
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = int(asm.currentAddr())
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// .macro processing
	macro, ok := asm.Macro[words[0]]
	if ok {
		name := words[0]

		args := words[1:]
		if len(args) != len(macro.Args) {
			err = ErrMacroSyntax
			return
		}
		// Turn args into equs
		old_equate := maps.Clone(asm.Equate)
		for n, arg := range macro.Args {
			asm.Equate[arg] = args[n]
		}
		defer func() { asm.Equate = old_equate }()

		// Local labels are unique per expansion.
		local := fmt.Sprintf("%v_%v_", name, lineno)

		for n, line := range macro.Lines {
			mline := macro.LineNo + n

			line = strings.ReplaceAll(line, "@", local)
			words, err = asm.parseLine(line, mline)
			if err == nil {
				err = asm.parseWords(words, mline)
			}
			if err != nil {
				err = &ErrMacro{Macro: name, Line: mline, Err: err}
				return
			}
		}

		words = nil
		return
	}

	return
}

// currentAddr gets the address of the next generated byte.
func (asm *Assembler) currentAddr() uint16 {
	if len(asm.Opcode) == 0 {
		return PC_START
	}

	last := asm.Opcode[len(asm.Opcode)-1]

	return last.Addr + uint16(len(last.Data))
}

// Parse parses an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int
	var macro *Macro

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Opcode = asm.Opcode[:0]
	if asm.Macro == nil {
		asm.Macro = make(map[string](*Macro))
	}
	clear(asm.Macro)
	asm.Equate = sysEquate()
	for attr, val := range asm.predefine {
		asm.Equate[attr] = val
	}

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		line, _, _ = strings.Cut(text, ";")
		line = strings.TrimSpace(line)
		words := strings.Fields(line)

		// .macro NAME arg...
		if len(words) > 0 && words[0] == ".macro" {
			if macro != nil {
				err = ErrMacroNesting
				return
			}
			if len(words) < 2 {
				err = ErrMacroSyntax
				return
			}
			_, ok := asm.Macro[words[1]]
			if ok {
				err = ErrMacroDuplicate
				return
			}
			macro = &Macro{
				LineNo: lineno + 1,
				Args:   words[2:],
			}
			asm.Macro[words[1]] = macro
			continue
		}

		if len(words) > 0 && words[0] == ".endm" {
			if macro == nil {
				err = ErrMacroLonelyEndm
				return
			}
			macro = nil
			continue
		}

		if macro != nil {
			macro.Lines = append(macro.Lines, line)
			continue
		}

		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	if macro != nil {
		err = ErrMacroLonely
		return
	}

	// Final linking of labels.
	for n := range asm.Opcode {
		op := &asm.Opcode[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		addr, ok := asm.Label[label]
		if !ok {
			line = strings.Join(op.Words, " ")
			lineno = op.LineNo
			err = ErrLabelMissing(label)
			return
		}
		if op.Code {
			op.Data[0] |= uint8(addr>>8) & 0xf
			op.Data[1] |= uint8(addr)
		} else {
			op.Data[0] = uint8(addr >> 8)
			op.Data[1] = uint8(addr)
		}
	}

	prog = &Program{
		Opcodes: slices.Clone(asm.Opcode),
	}

	return
}

// needArgs checks that exactly count operands follow the mnemonic.
func needArgs(words []string, count int) (err error) {
	switch {
	case len(words)-1 < count:
		err = ErrOpcodeValueMissing
	case len(words)-1 > count:
		err = ErrOpcodeExtraArgs
	}
	return
}

// The register-to-register operations.
var regOp = map[string]Kind{
	"OR":   OP_OR,
	"AND":  OP_AND,
	"XOR":  OP_XOR,
	"SUB":  OP_SUB,
	"SUBN": OP_SUBN,
}

// The single register operations in the Fx and Ex families.
var loadTo = map[string]Kind{
	"DT":  OP_LD_DT_VX,
	"ST":  OP_LD_ST_VX,
	"F":   OP_LD_F,
	"B":   OP_LD_B,
	"[I]": OP_LD_MEM,
}

// The register loads from sources that are not V registers.
var loadFrom = map[string]Kind{
	"DT":  OP_LD_VX_DT,
	"K":   OP_LD_VX_K,
	"[I]": OP_LD_REGS,
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	var data []uint8
	var label string
	var code bool

	// no-op
	if len(words) == 0 {
		return
	}

	initial_words := words
	addr := asm.currentAddr()

	defer func() {
		if err != nil || len(data) == 0 {
			return
		}
		if int(addr)+len(data) > memory.MEMORY_SIZE {
			err = fmt.Errorf("%w: 0x%x", ErrValueRange, int(addr)+len(data))
			return
		}
		opcode := Opcode{LineNo: lineno, Addr: addr, Words: initial_words, Data: data, Code: code, LinkLabel: label}
		asm.Opcode = append(asm.Opcode, opcode)
	}()

	mnemonic := strings.ToUpper(words[0])

	// Data directives
	switch mnemonic {
	case ".BYTE":
		if len(words) < 2 {
			err = ErrOpcodeValueMissing
			return
		}
		for _, word := range words[1:] {
			var value uint32
			value, err = asm.valueOf(word, 0xff)
			if err != nil {
				return
			}
			data = append(data, uint8(value))
		}
		return
	case ".WORD":
		err = needArgs(words, 1)
		if err != nil {
			return
		}
		var value uint32
		if isLabel(words[1]) {
			ip, ok := asm.Label[words[1]]
			if !ok {
				label = words[1]
			}
			value = uint32(ip)
		} else {
			value, err = asm.valueOf(words[1], 0xffff)
			if err != nil {
				return
			}
		}
		data = []uint8{uint8(value >> 8), uint8(value)}
		return
	}

	ins := Instruction{Kind: OP_UNKNOWN}
	args := words[1:]
	upper := make([]string, len(args))
	for n, arg := range args {
		upper[n] = strings.ToUpper(arg)
	}

	switch mnemonic {
	case "CLS":
		err = needArgs(words, 0)
		ins.Kind = OP_CLS
	case "RET":
		err = needArgs(words, 0)
		ins.Kind = OP_RET
	case "SYS", "CALL":
		err = needArgs(words, 1)
		if err != nil {
			return
		}
		ins.Kind = OP_SYS
		if mnemonic == "CALL" {
			ins.Kind = OP_CALL
		}
		ins.Addr, label, err = asm.addressOf(args[0])
	case "JP":
		switch len(args) {
		case 1:
			ins.Kind = OP_JP
			ins.Addr, label, err = asm.addressOf(args[0])
		case 2:
			if reg, ok := registerOf(args[0]); !ok || reg != 0 {
				err = ErrRegisterInvalid
				return
			}
			ins.Kind = OP_JP_V0
			ins.Addr, label, err = asm.addressOf(args[1])
		default:
			err = needArgs(words, 1)
		}
	case "SE", "SNE", "ADD", "LD":
		err = needArgs(words, 2)
		if err != nil {
			return
		}
		ins, label, err = asm.parseTwo(mnemonic, args, upper)
	case "OR", "AND", "XOR", "SUB", "SUBN":
		err = needArgs(words, 2)
		if err != nil {
			return
		}
		var ok bool
		ins.Kind = regOp[mnemonic]
		ins.X, ok = registerOf(args[0])
		if ok {
			ins.Y, ok = registerOf(args[1])
		}
		if !ok {
			err = ErrRegisterInvalid
		}
	case "SHR", "SHL":
		if len(args) < 1 || len(args) > 2 {
			err = needArgs(words, 1)
			return
		}
		ins.Kind = OP_SHR
		if mnemonic == "SHL" {
			ins.Kind = OP_SHL
		}
		var ok bool
		ins.X, ok = registerOf(args[0])
		if ok && len(args) == 2 {
			ins.Y, ok = registerOf(args[1])
		}
		if !ok {
			err = ErrRegisterInvalid
		}
	case "RND":
		err = needArgs(words, 2)
		if err != nil {
			return
		}
		ins.Kind = OP_RND
		var ok bool
		ins.X, ok = registerOf(args[0])
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		var value uint32
		value, err = asm.valueOf(args[1], 0xff)
		ins.Byte = uint8(value)
	case "DRW":
		err = needArgs(words, 3)
		if err != nil {
			return
		}
		ins.Kind = OP_DRW
		var ok bool
		ins.X, ok = registerOf(args[0])
		if ok {
			ins.Y, ok = registerOf(args[1])
		}
		if !ok {
			err = ErrRegisterInvalid
			return
		}
		var value uint32
		value, err = asm.valueOf(args[2], 0xf)
		ins.N = uint8(value)
	case "SKP", "SKNP":
		err = needArgs(words, 1)
		if err != nil {
			return
		}
		ins.Kind = OP_SKP
		if mnemonic == "SKNP" {
			ins.Kind = OP_SKNP
		}
		var ok bool
		ins.X, ok = registerOf(args[0])
		if !ok {
			err = ErrRegisterInvalid
		}
	default:
		err = ErrOpcodeInvalid
	}

	if err != nil {
		return
	}

	word := Encode(ins)
	data = []uint8{uint8(word >> 8), uint8(word)}
	code = true

	return
}

// parseTwo parses the two operand forms of SE, SNE, ADD and LD.
func (asm *Assembler) parseTwo(mnemonic string, args, upper []string) (ins Instruction, label string, err error) {
	dst, dst_ok := registerOf(args[0])
	src, src_ok := registerOf(args[1])

	switch {
	case mnemonic == "LD" && upper[0] == "I":
		ins.Kind = OP_LD_I
		ins.Addr, label, err = asm.addressOf(args[1])
		return
	case mnemonic == "ADD" && upper[0] == "I":
		if !src_ok {
			err = ErrRegisterInvalid
			return
		}
		ins.Kind, ins.X = OP_ADD_I, src
		return
	case mnemonic == "LD" && !dst_ok:
		kind, ok := loadTo[upper[0]]
		if !ok || !src_ok {
			err = ErrRegisterInvalid
			return
		}
		ins.Kind, ins.X = kind, src
		return
	case !dst_ok:
		err = ErrRegisterInvalid
		return
	}

	ins.X = dst

	if mnemonic == "LD" {
		if kind, ok := loadFrom[upper[1]]; ok {
			ins.Kind = kind
			return
		}
	}

	if src_ok {
		ins.Y = src
		switch mnemonic {
		case "SE":
			ins.Kind = OP_SE_REG
		case "SNE":
			ins.Kind = OP_SNE_REG
		case "ADD":
			ins.Kind = OP_ADD_REG
		case "LD":
			ins.Kind = OP_LD_REG
		}
		return
	}

	value, err := asm.valueOf(args[1], 0xff)
	if err != nil {
		return
	}
	ins.Byte = uint8(value)

	switch mnemonic {
	case "SE":
		ins.Kind = OP_SE_BYTE
	case "SNE":
		ins.Kind = OP_SNE_BYTE
	case "ADD":
		ins.Kind = OP_ADD_BYTE
	case "LD":
		ins.Kind = OP_LD_BYTE
	}

	return
}
