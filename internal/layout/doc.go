// Package layout word-wraps speaker segments and packs the resulting lines
// onto fixed-size pages.
//
// Coordinates follow the PDF convention: the origin is the bottom-left corner
// and Y grows upward, so the vertical cursor starts at PageHeight-Margin and
// moves down. Text width comes from a Measurer, keeping this package free of
// any rendering backend. Output depends only on the inputs.
package layout
