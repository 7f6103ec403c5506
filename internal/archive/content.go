package archive

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/nao1215/weatherscraper/internal/model"
)

// Lines returns the four lines archived for a bulletin: the start-of-header
// control character, the channel sequence, the abbreviated heading and the
// bulletin text with its "=" terminator.
func Lines(b model.Bulletin) []string {
	return []string{
		"\x01",
		"981 ",
		Prefix + " " + b.Station + " " + b.DayTime + " ",
		b.Text + "=",
	}
}

// writeLines writes lines as UTF-8 with a byte-order mark, each terminated
// by a newline.
func writeLines(w io.Writer, lines []string) error {
	tw := transform.NewWriter(w, unicode.UTF8BOM.NewEncoder())
	for _, line := range lines {
		if _, err := io.WriteString(tw, line+"\n"); err != nil {
			return err
		}
	}
	return tw.Close()
}

// readLines reads an archive file. A leading byte-order mark is dropped and
// line endings may be LF or CRLF. Lines are not length limited, so any
// bulletin the store wrote can be read back.
func readLines(r io.Reader) ([]string, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	br := bufio.NewReader(transform.NewReader(r, dec))

	var lines []string
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(line, "\n")
			lines = append(lines, strings.TrimSuffix(line, "\r"))
		}
		if errors.Is(err, io.EOF) {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}
