// Package output provides beautiful, styled terminal output for CLI tools.
//
// # Usage
//
//	output.Success("Workspace created!")
//	output.Info("Next steps:")
//	output.Step("cd demo")
//	output.Warning("Appending to existing .gitignore")
//	output.Error("Something went wrong")
//
// Messages go to stdout unless redirected with SetOutput.
//
// # Logging
//
// Diagnostics are separate from styled messages. NewLogger builds a
// charmbracelet/log logger whose level follows the -v count:
//
//	logger := output.NewLogger(os.Stderr, verbosity)
//	logger.Debug("resolved version", "crate", "serde", "version", "1.0.189")
//
// # Styling
//
//   - Success: 🦀 green bold
//   - Error: ❌ red bold
//   - Warning: ⚠️ yellow bold
//   - Info: ℹ️ cyan
//   - Step: indented gray
package output
