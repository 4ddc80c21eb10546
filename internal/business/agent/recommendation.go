package agent

import (
	"cropwatch/common/model"
)

// Direction 读数相对边界的方向
type Direction int

const (
	DirectionLow Direction = iota
	DirectionHigh
)

func (d Direction) String() string {
	if d == DirectionLow {
		return "low"
	}
	return "high"
}

// FallbackRecommendation 类别无建议表时的通用建议
const FallbackRecommendation = "Monitor this metric closely and adjust environmental conditions accordingly"

// DirectionOf value < boundary 为 low，否则为 high
func DirectionOf(value, boundary float64) Direction {
	if value < boundary {
		return DirectionLow
	}
	return DirectionHigh
}

var recommendations = [len(model.Categories) + 1][2][]string{
	model.CategoryTemperature: {
		DirectionLow: {
			"Increase greenhouse heating system to raise ambient temperature",
			"Consider using thermal blankets or row covers to protect plants",
			"Reduce ventilation to retain heat inside the growing area",
			"Apply mulch to soil surface to maintain root temperature",
		},
		DirectionHigh: {
			"Increase ventilation to cool the greenhouse",
			"Activate cooling systems or shade cloths if available",
			"Water plants more frequently during peak heat hours",
			"Spray water on leaves to provide evaporative cooling",
		},
	},
	model.CategoryHumidity: {
		DirectionLow: {
			"Install misting systems to increase humidity levels",
			"Reduce ventilation to trap moisture",
			"Water plants more frequently to increase soil moisture evaporation",
			"Provide organic mulch to reduce moisture evaporation from soil",
		},
		DirectionHigh: {
			"Increase ventilation to reduce humidity",
			"Use dehumidifiers if available",
			"Space plants further apart to improve air circulation",
			"Reduce watering frequency to prevent fungal diseases",
		},
	},
	model.CategorySoilMoisture: {
		DirectionLow: {
			"Increase irrigation frequency and duration",
			"Apply drip irrigation for more efficient water delivery",
			"Add mulch to soil to reduce evaporation",
			"Water during cooler parts of the day",
		},
		DirectionHigh: {
			"Reduce irrigation frequency to prevent root rot",
			"Improve soil drainage by adding organic matter",
			"Ensure drainage systems are functioning properly",
			"Aerate soil if it has become compacted",
		},
	},
	model.CategoryPhLevel: {
		DirectionLow: {
			"Add lime (calcium carbonate) to raise soil pH",
			"Apply wood ash to increase alkalinity",
			"Reduce nitrogen-heavy fertilizers",
			"Test soil weekly to monitor pH changes",
		},
		DirectionHigh: {
			"Add sulfur or sulfuric acid to lower soil pH",
			"Apply aluminum sulfate to acidify soil",
			"Use acidifying fertilizers",
			"Incorporate peat moss into soil",
		},
	},
	model.CategoryLightIntensity: {
		DirectionLow: {
			"Install or increase supplemental LED grow lights",
			"Position plants closer to existing light sources",
			"Clean greenhouse panels to maximize natural light transmission",
			"Prune excess foliage to allow more light to lower leaves",
		},
		DirectionHigh: {
			"Install shade cloths to reduce light intensity",
			"Move plants to areas with less direct sunlight",
			"Adjust light fixtures to reduce intensity",
			"Provide adequate ventilation to prevent heat stress",
		},
	},
}

// Recommend 返回类别和方向对应的建议列表（副本）
func Recommend(c model.SensorCategory, value, boundary float64) []string {
	if c < 0 || int(c) >= len(recommendations) {
		return []string{FallbackRecommendation}
	}
	list := recommendations[c][DirectionOf(value, boundary)]
	if len(list) == 0 {
		return []string{FallbackRecommendation}
	}
	out := make([]string, len(list))
	copy(out, list)
	return out
}
