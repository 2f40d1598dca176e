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

// Command rsdemo streams data through the classic 255/223 Reed-Solomon
// codec: 223-byte message blocks in, 255-byte codewords out, or the
// reverse with -d.
package main

import (
	"bufio"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/lindqvist/qrforge/rs"
)

const (
	blockN = 255
	blockK = 223
)

var decodeFlag bool

func main() {
	cmd := &cobra.Command{
		Use:   "rsdemo",
		Short: "Stream data through a 255/223 Reed-Solomon codec",
		RunE:  run,
	}
	cmd.Flags().BoolVarP(&decodeFlag, "decode", "d", false, "decode 255-byte blocks back to 223-byte messages")

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func run(cmd *cobra.Command, args []string) error {
	codec, err := rs.New(blockN, blockK)
	if err != nil {
		return err
	}

	r := bufio.NewReader(os.Stdin)
	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	if decodeFlag {
		return streamDecode(codec, r, w)
	}
	return streamEncode(codec, r, w)
}

func streamEncode(codec *rs.RSCodec, r *bufio.Reader, w *bufio.Writer) error {
	buf := make([]byte, blockK)
	for {
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			encoded, encErr := codec.Encode(buf[:n])
			if encErr != nil {
				return encErr
			}
			if _, werr := w.Write(encoded); werr != nil {
				return werr
			}
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func streamDecode(codec *rs.RSCodec, r *bufio.Reader, w *bufio.Writer) error {
	buf := make([]byte, blockN)
	for {
		n, err := io.ReadFull(r, buf)
		if n == blockN {
			decoded, decErr := codec.Decode(buf, true)
			if decErr != nil {
				log.Error("uncorrectable block", "err", decErr)
				return decErr
			}
			if _, werr := w.Write(decoded); werr != nil {
				return werr
			}
		} else if n > 0 {
			log.Warn("dropping trailing partial block", "bytes", n)
		}
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}
