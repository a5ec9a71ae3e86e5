package util

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Help styles using lipgloss
var (
	gray        = lipgloss.Color("#A9A9A9")
	darkGray    = lipgloss.Color("#5A5A5A")
	lightGreen  = lipgloss.Color("#90EE90")
	brightGreen = lipgloss.Color("#00FF7F")
	teal        = lipgloss.Color("#0E7490") // matches logger prefix

	titleStyle = lipgloss.NewStyle().
			Foreground(teal).
			Bold(true).
			PaddingBottom(1).
			MarginLeft(2)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(gray).
			Italic(true).
			PaddingBottom(1).
			MarginLeft(2)

	sectionTitleStyle = lipgloss.NewStyle().
				Foreground(lightGreen).
				Bold(true).
				PaddingLeft(2)

	commandStyle = lipgloss.NewStyle().
			Foreground(brightGreen).
			Bold(true).
			PaddingLeft(4)

	parameterStyle = lipgloss.NewStyle().
			Foreground(gray).
			Italic(true)

	descriptionStyle = lipgloss.NewStyle().
				Foreground(gray).
				PaddingLeft(6).
				Width(80 - 6)

	separatorStyle = lipgloss.NewStyle().
			Foreground(darkGray)
)

// HelpText builds the help screen
func HelpText() string {
	var b strings.Builder
	sep := separatorStyle.Render(strings.Repeat("─", 80))

	b.WriteString(titleStyle.Render("bc95decrypt - decode encrypted BC95 NB-IoT messages"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Drops the 5 byte prefix, AES-ECB decrypts up to two blocks and prints the first msgpack value."))
	b.WriteString("\n\n")

	b.WriteString(sep + "\n")
	b.WriteString(sectionTitleStyle.Render("Usage:"))
	b.WriteString("\n")
	b.WriteString(commandStyle.Render("  bc95decrypt ") + parameterStyle.Render("[options] [ciphertext] [key]"))
	b.WriteString("\n")
	b.WriteString(descriptionStyle.Render("    Both values are hex. Without arguments the built-in example pair is decoded. Use - as ciphertext to read one message per line from stdin."))
	b.WriteString("\n\n")

	b.WriteString(sep + "\n")
	b.WriteString(sectionTitleStyle.Render("Options:"))
	b.WriteString("\n")
	addEntry(&b, "-debug", "Log every stage (prefix, plaintext, timings) and show full error traces.")
	addEntry(&b, "-json", "Print the decoded value as JSON.")
	addEntry(&b, "-seal <json>", "Encrypt a JSON value instead of decrypting and print the hex message.")
	addEntry(&b, "-prefix <hex>", "5 byte prefix (10 hex digits) used by -seal. Default: 0000000000.")
	addEntry(&b, "-help / -h", "Show this help message.")
	addEntry(&b, "-version", "Show version information.")
	b.WriteString("\n")

	b.WriteString(sep + "\n")
	b.WriteString(sectionTitleStyle.Render("Environment:"))
	b.WriteString("\n")
	addEntry(&b, "BC95_MESSAGE", "Ciphertext used when no argument is given.")
	addEntry(&b, "BC95_KEY", "Key used when no second argument is given.")
	addEntry(&b, "BC95_OUTPUT", "text (default) or json.")
	addEntry(&b, "BC95_DEBUG", "true enables debug logging.")
	b.WriteString(descriptionStyle.Render("    Variables may also be set in a .env file in the working directory."))
	b.WriteString("\n\n")

	b.WriteString(sep + "\n")
	b.WriteString(sectionTitleStyle.Render("Examples:"))
	b.WriteString("\n")
	addEntry(&b, "bc95decrypt", "Decode the built-in example, prints {\"test\":123}")
	addEntry(&b, "bc95decrypt CEBC9AB2394489959C13C3BC81CA450353EBA08819 41eac07039b29abc41eac07039b29abc", "Decode an explicit message with an explicit key")
	addEntry(&b, "bc95decrypt -seal '{\"t\":21}'", "Encrypt a value with the default key")
	addEntry(&b, "cat messages.txt | bc95decrypt -json -", "Decode a batch of messages as JSON lines")
	b.WriteString("\n")

	return b.String()
}

// ShowHelp prints the help screen
func ShowHelp() {
	fmt.Print(HelpText())
}

func addEntry(b *strings.Builder, name, desc string) {
	b.WriteString(commandStyle.Render("  " + name))
	b.WriteString("\n")
	b.WriteString(descriptionStyle.Render("    " + desc))
	b.WriteString("\n")
}
