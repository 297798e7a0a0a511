package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	promptIn  io.Reader
	promptBuf *bufio.Reader
)

// promptReader buffers the command's input once so consecutive prompts do
// not lose lines to a discarded reader.
func promptReader(cmd *cobra.Command) *bufio.Reader {
	if in := cmd.InOrStdin(); in != promptIn {
		promptIn, promptBuf = in, bufio.NewReader(in)
	}
	return promptBuf
}

// promptLine asks label on the command's output and reads one line from its
// input. EOF yields whatever was typed so far.
func promptLine(cmd *cobra.Command, label string) string {
	fmt.Fprintf(cmd.OutOrStdout(), "%s: ", label)
	line, _ := promptReader(cmd).ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(cmd *cobra.Command, question string) bool {
	answer := strings.ToLower(promptLine(cmd, question+" [y/N]"))
	return answer == "y" || answer == "yes"
}
