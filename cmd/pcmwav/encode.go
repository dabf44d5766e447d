package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/cwbudde/pcmwav"
)

func (e *env) encodeCommand() *cli.Command {
	return &cli.Command{
		Name:      "encode",
		Usage:     "wrap base64 PCM into a wav file",
		ArgsUsage: "[input|-]",
		Flags: append(formatFlags(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "file to write to, - for stdout",
				Value:   "output.wav",
			},
		),
		Action: func(c *cli.Context) error {
			f, err := e.format(c)
			if err != nil {
				return err
			}

			input, err := readInput(c.App.Reader, c.Args().First())
			if err != nil {
				return err
			}

			wav, err := pcmwav.EncodeBase64(strings.TrimSpace(string(input)), f)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			output := c.String("output")
			if output == "-" {
				_, err := c.App.Writer.Write(wav)
				return err
			}

			if err := os.WriteFile(output, wav, 0o644); err != nil {
				return fmt.Errorf("error writing %s: %w", output, err)
			}

			e.logger.Info("wrote wav file", "path", output, "format", f.String(), "bytes", len(wav))

			return nil
		},
	}
}

func readInput(stdin io.Reader, name string) ([]byte, error) {
	if name == "" || name == "-" {
		return io.ReadAll(stdin)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", name, err)
	}

	return data, nil
}

func (e *env) infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     "print the header of a wav file",
		ArgsUsage: "file",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("info expects exactly one file", 2)
			}

			file, err := os.Open(c.Args().First())
			if err != nil {
				return err
			}
			defer file.Close()

			h, err := pcmwav.ReadHeader(file)
			if err != nil {
				if errors.Is(err, pcmwav.ErrInvalidHeader) {
					return cli.Exit(err.Error(), 1)
				}

				return err
			}

			fmt.Fprintln(c.App.Writer, h.String())
			fmt.Fprintf(c.App.Writer, "data: %d bytes, %d samples\n", h.DataSize, h.Samples())

			return nil
		},
	}
}
