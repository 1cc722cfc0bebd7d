// Package plotspace turns detected pixel centres into plot coordinates and
// draws them back out as a scatter plot for comparison with the scan.
//
// Static re-plots (PNG, SVG, PDF) come from gonum/plot; an .html target gets
// an interactive go-echarts chart instead. LinearFit summarises the points of
// a line plot as a least-squares trend.
package plotspace
