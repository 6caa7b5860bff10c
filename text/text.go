package text

import (
	"strconv"
	"strings"
)

const (
	VERSION = "0.1"
	BULLET  = " ▪ "
	PROMPT  = "→ "
)

func ToEscapedText(s string) string {
	result := "\""
	for _, ch := range s {
		switch ch {
		case '\n':
			result = result + "\\n"
		case '\r':
			result = result + "\\r"
		case '\t':
			result = result + "\\t"
		case '"':
			result = result + "\\\""
		default:
			result = result + string(ch)
		}
	}
	return result + "\""
}

func Emph(s string) string {
	return CYAN + "'" + s + "'" + RESET
}

func Red(s string) string {
	return RED + s + RESET
}

func Green(s string) string {
	return GREEN + s + RESET
}

func Yellow(s string) string {
	return YELLOW + s + RESET
}

func Logo() string {
	var padding string
	if len(VERSION)%2 == 0 {
		padding = ","
	}
	titleText := " Purua" + padding + " version " + VERSION + " "
	moon := Yellow("☾")
	leftMargin := "  "
	bar := strings.Repeat("═", len(titleText)/2)
	logoString := "\n" +
		leftMargin + "╔" + bar + moon + bar + "╗\n" +
		leftMargin + "║" + titleText + "║\n" +
		leftMargin + "╚" + bar + moon + bar + "╝\n\n"
	return logoString
}

// DescribePos names a position in the source for an error message.
func DescribePos(line, col int) string {
	return " at line " + Yellow(strconv.Itoa(line)+":"+strconv.Itoa(col))
}

var (
	RESET  = "\033[0m"
	RED    = "\033[31m"
	GREEN  = "\033[32m"
	YELLOW = "\033[33m"
	BLUE   = "\033[34m"
	PURPLE = "\033[35m"
	CYAN   = "\033[36m"
	GRAY   = "\033[37m"
	WHITE  = "\033[97m"
	ERROR  = Red("error") + ": "
	OK     = Green("ok")
)
