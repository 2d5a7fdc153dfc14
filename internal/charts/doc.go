// Package charts renders the analysis result as PNG charts: revenue and
// profit trends, the department revenue split, both product rankings,
// turnover and slow movers.
//
// Drawing uses fogleman/gg with the Go Regular TrueType face, which covers
// Cyrillic. Each chart type implements Chart and is drawn onto a fresh
// 1200x700 canvas.
package charts
