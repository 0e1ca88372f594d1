package util

import "time"

// FunctionTimePair is the CPU time a profile attributes to one function
type FunctionTimePair struct {
	Function string
	Time     time.Duration
}

type FunctionTimeArray []FunctionTimePair

func (l FunctionTimeArray) Len() int {
	return len(l)
}

func (l FunctionTimeArray) Less(i, j int) bool {
	// we want to sort greatest first, by name when equal so output is stable
	if l[i].Time == l[j].Time {
		return l[i].Function < l[j].Function
	}
	return l[i].Time > l[j].Time
}

func (l FunctionTimeArray) Swap(i, j int) {
	l[i], l[j] = l[j], l[i]
}
