package main

import (
	"bufio"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/alvarorichard/bc95decrypt/internal/config"
	"github.com/alvarorichard/bc95decrypt/internal/packet"
	"github.com/alvarorichard/bc95decrypt/internal/render"
	"github.com/alvarorichard/bc95decrypt/internal/util"
	"github.com/alvarorichard/bc95decrypt/internal/version"
)

func main() {
	if version.HasVersionArg() {
		version.ShowVersion(os.Stdout)
		return
	}
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit status.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bc95decrypt", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define all flags in one place
	versionFlag := fs.Bool("version", false, "show version information")
	debugFlag := fs.Bool("debug", false, "enable debug mode")
	helpFlag := fs.Bool("help", false, "show help message")
	altHelpFlag := fs.Bool("h", false, "show help message")
	jsonFlag := fs.Bool("json", false, "print the decoded value as JSON")
	sealFlag := fs.String("seal", "", "encrypt this JSON value instead of decrypting")
	prefixFlag := fs.String("prefix", "0000000000", "5 byte hex prefix used by -seal")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			fmt.Fprint(stdout, util.HelpText())
			return 0
		}
		return 2
	}

	if *versionFlag {
		version.ShowVersion(stdout)
		return 0
	}
	if *helpFlag || *altHelpFlag {
		fmt.Fprint(stdout, util.HelpText())
		return 0
	}

	cfg, err := config.Load(fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, util.ErrorHandler(errors.Wrap(err, "config")))
		return 1
	}

	util.SetDebugMode(*debugFlag || cfg.Debug)
	util.InitLoggerTo(stderr)
	if *jsonFlag {
		cfg.Output = render.ModeJSON
	}
	util.Debug("configuration loaded", "output", cfg.Output, "stdin", cfg.FromStdin)

	if *sealFlag != "" {
		err = seal(stdout, *sealFlag, cfg.Key, *prefixFlag)
	} else if cfg.FromStdin {
		err = decryptLines(stdin, stdout, cfg)
	} else {
		err = decryptOne(stdout, cfg.Ciphertext, cfg.Key, cfg.Output)
	}
	if err != nil {
		fmt.Fprintln(stderr, util.ErrorHandler(err))
		return 1
	}
	return 0
}

func decryptOne(w io.Writer, ciphertext, key string, mode render.Mode) error {
	timer := util.StartTimer("decrypt")
	res, err := packet.Decrypt(ciphertext, key)
	timer.Stop()
	if err != nil {
		return err
	}

	util.Debug("message decoded",
		"prefix", hex.EncodeToString(res.Prefix[:]),
		"plaintext", hex.EncodeToString(res.Plaintext),
		"consumed", res.Consumed,
		"padding", len(res.Padding()),
	)

	out, err := render.Render(res.Value, mode)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// decryptLines decodes one ciphertext per non-blank line of r. The first
// failure stops the batch.
func decryptLines(r io.Reader, w io.Writer, cfg config.Cfg) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		if err := decryptOne(w, text, cfg.Key, cfg.Output); err != nil {
			return errors.WithMessagef(err, "line %d", line)
		}
	}
	return errors.Wrap(sc.Err(), "read stdin")
}

func seal(w io.Writer, doc, key, prefixHex string) error {
	rawPrefix, err := packet.DecodeHex(packet.StageSeal, "prefix", prefixHex)
	if err != nil {
		return err
	}
	if len(rawPrefix) != packet.PrefixLen {
		return &packet.StageError{
			Stage: packet.StageSeal,
			Err:   errors.Errorf("prefix is %d bytes, want %d", len(rawPrefix), packet.PrefixLen),
		}
	}
	var prefix [packet.PrefixLen]byte
	copy(prefix[:], rawPrefix)

	value, err := render.FromJSON(doc)
	if err != nil {
		return &packet.StageError{Stage: packet.StageSeal, Err: err}
	}

	msg, err := packet.Seal(value, key, prefix)
	if err != nil {
		return err
	}
	util.Debug("value sealed", "bytes", len(msg)/2)
	_, err = fmt.Fprintln(w, msg)
	return err
}
