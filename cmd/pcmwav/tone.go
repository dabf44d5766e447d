package main

import (
	"fmt"
	"math"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/cwbudde/pcmwav"
)

const toneChunk = 4096

func (e *env) toneCommand() *cli.Command {
	return &cli.Command{
		Name:  "tone",
		Usage: "generate a sine wave wav file",
		Flags: append(formatFlags(),
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "filename to write to", Value: "tone.wav"},
			&cli.Float64Flag{Name: "frequency", Usage: "frequency in hertz to generate", Value: 440},
			&cli.Float64Flag{Name: "length", Usage: "length in seconds of output file", Value: 5},
			&cli.Float64Flag{Name: "amplitude", Usage: "peak amplitude between 0 and 1", Value: 0.5},
		),
		Action: func(c *cli.Context) error {
			f, err := e.format(c)
			if err != nil {
				return err
			}

			length := c.Float64("length")
			amplitude := c.Float64("amplitude")
			if length < 0 || amplitude < 0 || amplitude > 1 {
				return cli.Exit("length must not be negative and amplitude must be within [0, 1]", 2)
			}

			output := c.String("output")
			e.logger.Info("generating sine wave", "length", length, "frequency", c.Float64("frequency"), "format", f.String())

			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("error creating %s: %w", output, err)
			}
			defer file.Close()

			enc := pcmwav.NewEncoder(file, f)
			if err := writeTone(enc, f, c.Float64("frequency"), amplitude, int(float64(f.SampleRate)*length)); err != nil {
				return err
			}

			return enc.Close()
		},
	}
}

func writeTone(enc *pcmwav.Encoder, f pcmwav.Format, frequency, amplitude float64, frames int) error {
	buf := make([]int16, 0, toneChunk*f.NumChannels)

	for i := range frames {
		s := pcmwav.FloatToInt16(amplitude * math.Sin(float64(i)/float64(f.SampleRate)*frequency*2*math.Pi))

		for range f.NumChannels {
			buf = append(buf, s)
		}

		if len(buf) == cap(buf) {
			if err := enc.WriteSamples(buf); err != nil {
				return err
			}

			buf = buf[:0]
		}
	}

	return enc.WriteSamples(buf)
}
