package analysis

import (
	"math"

	"github.com/effective-security/coinagent/market"
)

// Thresholds on the absolute 24h change, in percent
const (
	strongMomentum   = 5.0
	moderateMomentum = 2.0
	highVolatility   = 10.0
	mediumVolatility = 5.0
)

// Thresholds on the 24h volume to market cap ratio
const (
	highParticipation = 0.1
	veryHighLiquidity = 0.2
)

// Market cap tiers, in USD
const (
	majorCap = 10_000_000_000
	midCap   = 1_000_000_000
)

// Support and resistance are placed at this distance from the price
const keyLevelBand = 0.05

// Sentiment is the rule based reading of a snapshot
type Sentiment struct {
	Bullish bool `json:"bullish" yaml:"bullish"`
	// Trend is Bullish or Bearish
	Trend string `json:"trend" yaml:"trend"`
	// Momentum is Strong, Moderate or Weak
	Momentum string `json:"momentum" yaml:"momentum"`
	// Volatility is High, Medium or Low
	Volatility string `json:"volatility" yaml:"volatility"`
	// RiskLevel is High, Moderate or Low
	RiskLevel string `json:"riskLevel" yaml:"riskLevel"`
	// PriceRisk is significant, moderate or minimal
	PriceRisk string `json:"priceRisk" yaml:"priceRisk"`
	// Participation is High or Moderate
	Participation string `json:"participation" yaml:"participation"`
	// LiquidityRisk is Very high, High or Moderate
	LiquidityRisk string `json:"liquidityRisk" yaml:"liquidityRisk"`
	// Tier is major, mid-tier or smaller
	Tier       string  `json:"tier" yaml:"tier"`
	Support    float64 `json:"support" yaml:"support"`
	Resistance float64 `json:"resistance" yaml:"resistance"`
}

// NewSentiment derives the indicators from the snapshot
func NewSentiment(s *market.MarketSnapshot) Sentiment {
	change := s.PriceChangePercentage24h
	move := math.Abs(change)

	st := Sentiment{
		Bullish:    change >= 0,
		Trend:      "Bearish",
		Support:    s.CurrentPrice * (1 - keyLevelBand),
		Resistance: s.CurrentPrice * (1 + keyLevelBand),
	}
	if st.Bullish {
		st.Trend = "Bullish"
	}

	switch {
	case move > strongMomentum:
		st.Momentum = "Strong"
	case move > moderateMomentum:
		st.Momentum = "Moderate"
	default:
		st.Momentum = "Weak"
	}

	switch {
	case move > highVolatility:
		st.Volatility, st.RiskLevel, st.PriceRisk = "High", "High", "significant"
	case move > mediumVolatility:
		st.Volatility, st.RiskLevel, st.PriceRisk = "Medium", "Moderate", "moderate"
	default:
		st.Volatility, st.RiskLevel, st.PriceRisk = "Low", "Low", "minimal"
	}

	st.Participation = "Moderate"
	if s.Volume24h > s.MarketCap*highParticipation {
		st.Participation = "High"
	}

	switch {
	case s.Volume24h > s.MarketCap*veryHighLiquidity:
		st.LiquidityRisk = "Very high"
	case s.Volume24h > s.MarketCap*highParticipation:
		st.LiquidityRisk = "High"
	default:
		st.LiquidityRisk = "Moderate"
	}

	switch {
	case s.MarketCap > majorCap:
		st.Tier = "major"
	case s.MarketCap > midCap:
		st.Tier = "mid-tier"
	default:
		st.Tier = "smaller"
	}
	return st
}
