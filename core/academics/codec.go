package academics

import "io"

// Codec decodes an uploaded spreadsheet into a grid and encodes a grid back into a file.
type Codec interface {
	// Decode reads the first sheet: row 0 becomes the headers, the rest the data rows.
	Decode(r io.Reader) (*Grid, error)
	// Encode writes the headers and values as a single sheet.
	Encode(w io.Writer, g *Grid) error
	// Ext is the file extension of encoded files, eg. ".xlsx".
	Ext() string
	ContentType() string
}
