// Package risk maps overlap and hotspot counts to ordinal risk levels.
package risk

import "github.com/dsablic/mergeplan/internal/model"

// AssessRiskLevel classifies a file by the number of overlapping branch pairs.
func AssessRiskLevel(overlapCount int) model.RiskLevel {
	switch {
	case overlapCount >= 3:
		return model.RiskHigh
	case overlapCount >= 1:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}

// RiskToNumber returns the sort score of a level: low 1, medium 2, high 3.
// Values outside the three constants score 0.
func RiskToNumber(level model.RiskLevel) int {
	return level.Score()
}

// OverallHotspotRisk classifies a merge by its hotspot count. It uses wider
// bands than AssessRiskLevel: 1 to 5 hotspots is medium, 6 or more is high.
func OverallHotspotRisk(hotspotCount int) model.RiskLevel {
	switch {
	case hotspotCount > 5:
		return model.RiskHigh
	case hotspotCount > 0:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
