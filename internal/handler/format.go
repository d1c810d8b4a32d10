package handler

import "strconv"

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}

func formatInt(v int64) string {
	return strconv.FormatInt(v, 10)
}
