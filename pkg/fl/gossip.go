package fl

const (
	DefaultGossipProbability = 0.7
	DefaultBlendFactor       = 0.3
)

// Blend pulls local towards global: local*(1-beta) + global*beta.
func Blend(local, global Parameters, beta float64) Parameters {
	return local.Scale(1 - beta).Add(global.Scale(beta))
}

// Participates reports whether a peer takes part in this round's gossip
// given its uniform draw in [0, 1).
func Participates(draw, probability float64) bool {
	return draw < probability
}
