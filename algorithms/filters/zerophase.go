package filters

// FiltFilt applies the chain with zero phase distortion: run the filter
// forward, reverse the result, run it again, reverse again. The output has
// no group delay relative to the input, so band-power timing stays aligned
// with window boundaries. The effective magnitude response is the square of
// the chain's single-pass response.
func FiltFilt(chain Chain, input []float64) []float64 {
	if len(chain) == 0 {
		output := make([]float64, len(input))
		copy(output, input)
		return output
	}

	output := chain.Filter(input)
	reverse(output)
	output = chain.Filter(output)
	reverse(output)

	return output
}

func reverse(data []float64) {
	for i, j := 0, len(data)-1; i < j; i, j = i+1, j-1 {
		data[i], data[j] = data[j], data[i]
	}
}
