// Package output provides structured output and error handling for the standup CLI.
//
// Every command writes through a Printer, which switches between styled
// human output and JSON based on the --json flag:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
//	printer.Success(map[string]any{"message": "2 changes applied"})
//	printer.Error(err)
//
// In JSON mode errors are written as {"error": "message", "code": N}.
//
// # Exit Codes
//
//	output.ExitSuccess      // 0
//	output.ExitUserError    // 1: bad flags, missing credentials, unknown format
//	output.ExitSystemError  // 2: model call failed, spreadsheet or file I/O failed
//	output.ExitParseFailure // 3: model response held no usable JSON
//
// Library packages return plain wrapped errors; commands convert them with
// the constructors below at the CLI edge.
package output
