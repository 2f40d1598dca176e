/*
 * Copyright © 2020, G.Ralph Kuntz, MD.
 *
 * Licensed under the Apache License, Version 2.0(the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIC
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command qrdemo encodes text into a QR code and renders it as ASCII, SVG,
// or PNG. It is a reference harness for the qrcodegen and render packages,
// not part of the codec itself.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/lindqvist/qrforge"
	"github.com/lindqvist/qrforge/render"
)

var (
	eclFlag    string
	formatFlag string
	scaleFlag  int
	borderFlag int
	outFlag    string
	openFlag   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "qrdemo <text>",
		Short: "Encode text into a QR code and render it",
		Args:  cobra.ExactArgs(1),
		RunE:  runEncode,
	}

	cmd.Flags().StringVar(&eclFlag, "ecl", "medium", "error correction level: low, medium, quartile, high")
	cmd.Flags().StringVar(&formatFlag, "format", "ascii", "output format: ascii, svg, png")
	cmd.Flags().IntVar(&scaleFlag, "scale", 8, "pixels per module (png only)")
	cmd.Flags().IntVar(&borderFlag, "border", 4, "quiet zone width, in modules")
	cmd.Flags().StringVar(&outFlag, "out", "", "output file (default: stdout for ascii/svg)")
	cmd.Flags().BoolVar(&openFlag, "open", false, "open the rendered SVG in a browser")

	_ = viper.BindPFlag("scale", cmd.Flags().Lookup("scale"))
	_ = viper.BindPFlag("border", cmd.Flags().Lookup("border"))
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	viper.SetConfigName("qrdemo")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.SetEnvPrefix("QRDEMO")
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		log.Debug("loaded config", "file", viper.ConfigFileUsed())
	}

	return cmd
}

func parseECL(s string) (qrcodegen.Ecc, error) {
	switch s {
	case "low":
		return qrcodegen.Low, nil
	case "medium":
		return qrcodegen.Medium, nil
	case "quartile":
		return qrcodegen.Quartile, nil
	case "high":
		return qrcodegen.High, nil
	default:
		return 0, fmt.Errorf("unknown error correction level %q", s)
	}
}

func runEncode(cmd *cobra.Command, args []string) error {
	ecl, err := parseECL(eclFlag)
	if err != nil {
		return err
	}

	scale := viper.GetInt("scale")
	border := viper.GetInt("border")
	format := viper.GetString("format")

	qr, err := qrcodegen.EncodeText(args[0], ecl)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	log.Info("encoded QR code", "version", qr.Version(), "size", qr.Size(), "mask", qr.Mask())

	switch format {
	case "ascii":
		return writeOut(render.ASCII(qr, border))
	case "svg":
		svg, err := render.SVG(qr, border)
		if err != nil {
			return err
		}
		if openFlag {
			return openSVG(svg)
		}
		return writeOut(svg)
	case "png":
		return writePNG(qr, scale, border)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeOut(s string) error {
	if outFlag == "" {
		fmt.Print(s)
		return nil
	}
	return os.WriteFile(outFlag, []byte(s), 0o644)
}

func writePNG(qr *qrcodegen.QRCode, scale, border int) error {
	path := outFlag
	if path == "" {
		path = "qrcode.png"
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := render.PNG(f, qr, scale, border); err != nil {
		return err
	}
	log.Info("wrote PNG", "path", path)
	return nil
}

func openSVG(svg string) error {
	path := outFlag
	if path == "" {
		path = filepath.Join(os.TempDir(), "qrdemo.svg")
	}
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return err
	}
	log.Info("opening SVG in browser", "path", path)
	return browser.OpenFile(path)
}
