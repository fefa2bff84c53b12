// ABOUTME: Entry point for the RiskRegister risk assessment service.
// ABOUTME: Dispatches to the generate and serve subcommands.

package main

func main() {
	Execute()
}
