// SPDX-License-Identifier: MPL-2.0

package execution

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// newLineReader wraps r so that reads yield text decoded from enc.
func newLineReader(r io.Reader, enc encoding.Encoding) *bufio.Reader {
	return bufio.NewReader(transform.NewReader(r, enc.NewDecoder()))
}
