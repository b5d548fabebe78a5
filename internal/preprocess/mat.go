package preprocess

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"
)

// imageToMat converts an RGBA image to a 3-channel BGR Mat.
// The caller must Close the returned Mat.
func imageToMat(img *image.RGBA) (gocv.Mat, error) {
	img = packed(img)
	w, h := img.Rect.Dx(), img.Rect.Dy()

	rgba, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC4, img.Pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("converting image to mat: %w", err)
	}
	defer rgba.Close()

	bgr := gocv.NewMat()
	gocv.CvtColor(rgba, &bgr, gocv.ColorRGBAToBGR)
	return bgr, nil
}

// matToImage converts a 3-channel BGR Mat back to an opaque RGBA image.
func matToImage(mat gocv.Mat) *image.RGBA {
	rows, cols := mat.Rows(), mat.Cols()
	out := image.NewRGBA(image.Rect(0, 0, cols, rows))
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			vec := mat.GetVecbAt(y, x)
			i := out.PixOffset(x, y)
			out.Pix[i+0] = vec[2]
			out.Pix[i+1] = vec[1]
			out.Pix[i+2] = vec[0]
			out.Pix[i+3] = 255
		}
	}
	return out
}

// packed returns img if its pixels are contiguous from the origin, or a
// compact copy otherwise.
func packed(img *image.RGBA) *image.RGBA {
	if img.Rect.Min == (image.Point{}) && img.Stride == 4*img.Rect.Dx() && len(img.Pix) == img.Stride*img.Rect.Dy() {
		return img
	}
	return ToRGB(img)
}
