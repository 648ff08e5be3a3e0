// Package codegen renders a block workspace as an NQC program for the LEGO
// RCX controller.
//
// # Output shape
//
// Every top-level task_main, task or sub node becomes one block:
//
//	task spin()
//	{
//	  int speed;
//
//	  speed = 3;
//	  SetPower(OUT_A, speed);
//	}
//
// Chains outside any subprogram are loose. Without a main task they form the
// body of a synthesized "task main()" placed after every other block. With a
// main task they are emitted as free statements ahead of the blocks. An empty
// workspace yields exactly "task main()\n{\n}\n".
//
// # Expressions
//
// Each value kind renders at a fixed [Precedence]. Parentheses are never
// inserted: only the group block produces "( )" and only the not block
// produces "!". An operand that binds looser than its context is kept as
// written and reported as a [Diagnostic].
//
// # Declarations
//
// NQC requires every variable to be declared before use. Each body is
// rendered twice: a dry pass registers every variable name in the body's
// [Scope], then the emitting pass renders with the declarations known and
// hoisted to the top of the block. A repeat whose bound is not a literal or
// identifier gets an auxiliary counter, declared after the user's variables.
//
// # Errors
//
// Structural problems never stop generation. A node kind without a
// [Definition], a node in a slot of the wrong role, or a reserved-word
// collision under [ReservedReject] fails with [ErrUnrenderable] or
// [ErrReservedName].
package codegen
