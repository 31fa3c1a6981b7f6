package mocks

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"
)

// HelperEnv marks a test binary that was re-executed as the fake interpreter.
const HelperEnv = "ASMCHECK_FAKE_INTERPRETER"

// Main is a TestMain body for packages that spawn the fake interpreter.
// When the test binary is re-executed by the code under test, it behaves as
// the interpreter instead of running tests.
func Main(m *testing.M) {
	if os.Getenv(HelperEnv) == "1" {
		os.Exit(FakeInterpreter(os.Args[1:], os.Stdout, os.Stderr))
	}
	_ = os.Setenv(HelperEnv, "1")
	os.Exit(m.Run())
}

// InterpreterCommand returns the command prefix that starts the fake interpreter.
func InterpreterCommand(t testing.TB) []string {
	t.Helper()
	exe, err := os.Executable()
	if err != nil {
		t.Fatalf("os.Executable() error = %v", err)
	}
	return []string{exe}
}

// FakeInterpreter runs a program written in a tiny line-based language and
// returns the process exit code. It accepts the same arguments as the real
// interpreter: [flags...] <program> [-u <input> | --stdin <file>].
//
// Instructions, one per line:
//
//	print <text>    write text to stdout
//	println <text>  write text and a newline to stdout
//	input           write the received input to stdout
//	flags           write the extra flags, space-separated, to stdout
//	stderr <text>   write text and a newline to stderr
//	sleep <dur>     sleep for a Go duration
//	exit <n>        exit with status n
func FakeInterpreter(args []string, stdout, stderr io.Writer) int {
	var (
		program string
		input   string
		flags   []string
	)
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case (arg == "-u" || arg == "--stdin") && i+1 < len(args):
			i++
			if arg == "-u" {
				input = args[i]
				continue
			}
			data, err := os.ReadFile(args[i])
			if err != nil {
				fmt.Fprintf(stderr, "cannot read input: %v\n", err)
				return 1
			}
			input = string(data)
		case strings.HasPrefix(arg, "-"):
			flags = append(flags, arg)
		default:
			program = arg
		}
	}

	source, err := os.ReadFile(program)
	if err != nil {
		fmt.Fprintf(stderr, "cannot read program: %v\n", err)
		return 1
	}

	for _, line := range strings.Split(string(source), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		op, operand, _ := strings.Cut(line, " ")
		switch op {
		case "print":
			_, _ = io.WriteString(stdout, operand)
		case "println":
			_, _ = io.WriteString(stdout, operand+"\n")
		case "input":
			_, _ = io.WriteString(stdout, input)
		case "flags":
			_, _ = io.WriteString(stdout, strings.Join(flags, " "))
		case "stderr":
			_, _ = io.WriteString(stderr, operand+"\n")
		case "sleep":
			d, err := time.ParseDuration(operand)
			if err != nil {
				fmt.Fprintf(stderr, "bad duration %q\n", operand)
				return 2
			}
			time.Sleep(d)
		case "exit":
			code, err := strconv.Atoi(operand)
			if err != nil {
				fmt.Fprintf(stderr, "bad exit code %q\n", operand)
				return 2
			}
			return code
		default:
			fmt.Fprintf(stderr, "unknown instruction %q\n", op)
			return 2
		}
	}
	return 0
}
