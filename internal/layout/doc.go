// Package layout places text on a fixed-size page as a flow of rows.
//
// A Flow is an ordered list of rows. Each row draws its cells on the current
// baseline and then moves the cursor down by its Advance. Coordinates follow
// the PDF convention: the origin is the bottom-left corner of the page and y
// grows upwards, so advancing decreases the cursor.
//
// Adding a field to a document means inserting a row; the positions of every
// following row shift with it instead of being recomputed by hand.
package layout
