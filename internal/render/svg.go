package render

import (
	"fmt"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/ivlev/blobscan/internal/label"
)

// WriteSVG writes a scalable overlay of blob bounding boxes. Each box is
// stroked with the blob's palette color and annotated with its id, so the
// overlay can be layered onto the source image in any viewer.
func WriteSVG(w io.Writer, width, height int, blobs []label.Blob) {
	canvas := svg.New(w)
	canvas.Start(width, height)

	for _, b := range blobs {
		c := PaletteColor(b.ID)
		style := fmt.Sprintf("fill:none;stroke:%s;stroke-width:1", c.Hex())
		canvas.Rect(b.MinX, b.MinY, b.MaxX-b.MinX+1, b.MaxY-b.MinY+1, style)
		canvas.Text(b.MinX, b.MinY-2, fmt.Sprintf("%d", b.ID),
			fmt.Sprintf("font-size:10px;fill:%s", c.Hex()))
	}

	canvas.End()
}
