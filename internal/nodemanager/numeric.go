package nodemanager

import "strconv"

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}

func ftoa(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
