// Package ccf scores how well a molecule's predicted feature positions line up with the
// depth fluctuations of a combined transmission spectrum.
//
// A template is a sparse comb: one unit spike at the spectrum sample nearest each feature
// center. Spectrum depths and the template are z-scored independently and cross-correlated
// over all lags (same-length output); the maximum is the molecule's peak score.
//
// The peak is an uncalibrated statistic. A higher value means stronger alignment, but no
// p-value or false-alarm rate is implied, and callers turning scores into detection claims
// must apply and justify their own threshold.
package ccf
