/*

Process of checking

Program Text ->
	scan ->
Token Stream ->
	parse ->
Abstract Syntax Tree (ast) ->
	verify ->
Decorated Tree + Symbol Table ->
	gen ->
Go Source

Every stage accepts broken input and keeps going. Problems are
collected as diagnostics with source positions instead of stopping
the run, so one pass over a file reports everything it can find.

*/
package compiler
