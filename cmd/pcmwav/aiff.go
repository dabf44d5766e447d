package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-audio/aiff"
	"github.com/urfave/cli/v2"

	"github.com/cwbudde/pcmwav"
)

func (e *env) aiffCommand() *cli.Command {
	return &cli.Command{
		Name:      "aiff",
		Usage:     "convert a 16-bit PCM wav file into an identical aiff file",
		ArgsUsage: "file.wav",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "defaults to the input path with an .aif extension"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("aiff expects exactly one file", 2)
			}

			sourcePath := c.Args().First()

			outPath := c.String("output")
			if outPath == "" {
				outPath = sourcePath[:len(sourcePath)-len(filepath.Ext(sourcePath))] + ".aif"
			}

			if err := wavToAIFF(sourcePath, outPath); err != nil {
				return err
			}

			e.logger.Info("wav file converted", "path", outPath)

			return nil
		},
	}
}

func wavToAIFF(sourcePath, outPath string) error {
	file, err := os.Open(sourcePath)
	if err != nil {
		return err
	}
	defer file.Close()

	h, err := pcmwav.ReadHeader(file)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	if h.AudioFormat != pcmwav.AudioFormatPCM || h.BitsPerSample != pcmwav.BitsPerSample {
		return cli.Exit(fmt.Sprintf("only 16-bit PCM is supported, got format %d @ %d bits", h.AudioFormat, h.BitsPerSample), 1)
	}

	data, err := io.ReadAll(io.LimitReader(file, int64(h.DataSize)))
	if err != nil {
		return fmt.Errorf("failed to read PCM data: %w", err)
	}

	samples, err := pcmwav.BytesToInt16LE(data)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	outFile, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", outPath, err)
	}
	defer outFile.Close()

	f := h.Format()
	encoder := aiff.NewEncoder(outFile, f.SampleRate, pcmwav.BitsPerSample, f.NumChannels)

	if err := encoder.Write(pcmwav.IntBuffer(samples, f)); err != nil {
		return fmt.Errorf("failed to write aiff data: %w", err)
	}

	return encoder.Close()
}
