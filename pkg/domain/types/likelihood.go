package types

// Likelihood is the ordinal exposure frequency of a hazard, from 1 (rare) to 5 (frequent or certain).
type Likelihood int

const (
	LikelihoodRare Likelihood = iota + 1
	LikelihoodUnlikely
	LikelihoodPossible
	LikelihoodLikely
	LikelihoodAlmostCertain
)

// AllLikelihoods returns every valid likelihood in ascending order
func AllLikelihoods() []Likelihood {
	return []Likelihood{
		LikelihoodRare,
		LikelihoodUnlikely,
		LikelihoodPossible,
		LikelihoodLikely,
		LikelihoodAlmostCertain,
	}
}

// Validate checks if the likelihood lies within [1,5]
func (l Likelihood) Validate() error {
	return validateLevel("likelihood", int(l))
}

// Int returns the likelihood as a plain integer
func (l Likelihood) Int() int {
	return int(l)
}

// ParseLikelihood parses a decimal string into a Likelihood
func ParseLikelihood(s string) (Likelihood, error) {
	v, err := parseLevel("likelihood", s)
	if err != nil {
		return 0, err
	}
	return Likelihood(v), nil
}
