// Package cpu implements the processor and assembler of the Continuum93.
//
// The processor has 26 byte registers (A-Z) that compose into big-endian
// 16, 24 and 32-bit views (AB, ABC, ABCD, ... wrapping at Z), 16 float
// registers (F0-F15), both switchable among 256 banks, a flags register,
// the SPR data stack pointer and a call stack.
//
// Every instruction is an opcode byte, one kind byte per operand holding
// its addressing mode and width, and the operand payloads. The Def table
// gives each opcode its mnemonic and operand grammar; the assembler and
// the decoder both validate forms with Def.Allows, so the encoding of an
// operand form can never differ between the two.
//
// The assembler is two pass, and supports labels, #ORG, #DB, #EQU,
// #MACRO/#ENDM and compile-time $(...) expressions.
package cpu
