package recurrent

/*
NLLCost takes a batch of log-probabilities (one row per example) and the
target class of each row, writes the gradient of the mean negative
log-likelihood into logProbs.DW and returns that mean.
*/
func NLLCost(logProbs *Mat, targets []int) float64 {
	Assert(len(targets) == logProbs.RowCount, "NLLCost needs one target per row")

	n := float64(logProbs.RowCount)
	cost := 0.0
	for i, t := range targets {
		Assert(t >= 0 && t < logProbs.ColumnCount, "NLLCost target out of range")
		ix := i*logProbs.ColumnCount + t
		cost -= logProbs.W[ix]
		logProbs.DW[ix] -= 1 / n
	}
	return cost / n
}
