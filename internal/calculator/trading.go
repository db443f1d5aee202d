package calculator

import (
	"fmt"

	"github.com/iwvelando/finance-calculators/pkg/constants"
	"github.com/iwvelando/finance-calculators/pkg/mathutil"
	"github.com/iwvelando/finance-calculators/pkg/validation"
)

// Trade types.
const (
	TradeDelivery = "delivery"
	TradeIntraday = "intraday"
	TradeFutures  = "futures"
	TradeOptions  = "options"
	TradeEquity   = "equity"
)

// tradeCharges holds the per-segment fee schedule. Rates are fractions of value.
type tradeCharges struct {
	brokerageRate float64
	brokerageCap  float64
	sttOnBuy      bool
	sttRate       float64
	stampRate     float64
}

var brokerageSchedule = map[string]tradeCharges{
	TradeDelivery: {brokerageRate: 0.0003, brokerageCap: 20, sttOnBuy: true, sttRate: 0.001, stampRate: 0.00015},
	TradeIntraday: {brokerageRate: 0.0002, brokerageCap: 20, sttRate: 0.00025, stampRate: 0.00003},
	TradeFutures:  {brokerageRate: 0.0002, brokerageCap: 20, sttRate: 0.0001, stampRate: 0.00003},
	TradeOptions:  {brokerageRate: 0.0002, brokerageCap: 40, sttRate: 0.0005, stampRate: 0.00003},
}

const (
	exchangeChargeRate = 0.0000345
	sebiFeeRate        = 0.000001
	gstOnChargesRate   = 0.18
)

// BrokerageInput is a round-trip trade.
type BrokerageInput struct {
	Type      string  `mapstructure:"type"`
	BuyPrice  float64 `mapstructure:"buyPrice"`
	SellPrice float64 `mapstructure:"sellPrice"`
	Quantity  float64 `mapstructure:"quantity"`
}

// BrokerageResult itemizes the charges, rounded to paise.
type BrokerageResult struct {
	BuyValue           float64 `json:"buyValue" yaml:"buyValue"`
	SellValue          float64 `json:"sellValue" yaml:"sellValue"`
	TotalTurnover      float64 `json:"totalTurnover" yaml:"totalTurnover"`
	Brokerage          float64 `json:"brokerage" yaml:"brokerage"`
	STT                float64 `json:"stt" yaml:"stt"`
	ExchangeCharges    float64 `json:"exchangeCharges" yaml:"exchangeCharges"`
	GST                float64 `json:"gst" yaml:"gst"`
	SEBI               float64 `json:"sebi" yaml:"sebi"`
	StampDuty          float64 `json:"stampDuty" yaml:"stampDuty"`
	TotalCharges       float64 `json:"totalCharges" yaml:"totalCharges"`
	NetProfitLoss      float64 `json:"netProfitLoss" yaml:"netProfitLoss"`
	BreakEvenPriceUp   float64 `json:"breakEvenPriceUp" yaml:"breakEvenPriceUp"`
	BreakEvenPriceDown float64 `json:"breakEvenPriceDown" yaml:"breakEvenPriceDown"`
}

// Brokerage charges a capped brokerage on turnover plus STT, exchange charges, GST on
// brokerage and exchange charges, SEBI fees and stamp duty on the buy side.
func Brokerage(in BrokerageInput) (*BrokerageResult, error) {
	var c validation.Collector
	c.OneOf("type", in.Type, TradeDelivery, TradeIntraday, TradeFutures, TradeOptions)
	c.Positive("buyPrice", in.BuyPrice)
	c.Positive("sellPrice", in.SellPrice)
	c.Positive("quantity", in.Quantity)
	c.Integer("quantity", in.Quantity)
	if err := c.Err(); err != nil {
		return nil, err
	}

	schedule := brokerageSchedule[in.Type]
	buy := in.BuyPrice * in.Quantity
	sell := in.SellPrice * in.Quantity
	turnover := buy + sell

	brokerage := mathutil.Min(turnover*schedule.brokerageRate, schedule.brokerageCap)
	sttBase := sell
	if schedule.sttOnBuy {
		sttBase = turnover
	}
	stt := sttBase * schedule.sttRate
	exchange := turnover * exchangeChargeRate
	gst := (brokerage + exchange) * gstOnChargesRate
	sebi := turnover * sebiFeeRate
	stamp := buy * schedule.stampRate

	charges := brokerage + stt + exchange + gst + sebi + stamp
	perUnit := charges / in.Quantity

	return checkFinite(&BrokerageResult{
		BuyValue:           roundPaise(buy),
		SellValue:          roundPaise(sell),
		TotalTurnover:      roundPaise(turnover),
		Brokerage:          roundPaise(brokerage),
		STT:                roundPaise(stt),
		ExchangeCharges:    roundPaise(exchange),
		GST:                roundPaise(gst),
		SEBI:               roundPaise(sebi),
		StampDuty:          roundPaise(stamp),
		TotalCharges:       roundPaise(charges),
		NetProfitLoss:      roundPaise(sell - buy - charges),
		BreakEvenPriceUp:   roundPaise(in.BuyPrice + perUnit),
		BreakEvenPriceDown: roundPaise(in.SellPrice - perUnit),
	})
}

var exposureMargins = map[string]float64{
	TradeEquity:  0.20,
	TradeFutures: 0.25,
	TradeOptions: 0.15,
}

// spanMultiplier scales VaR into the simplified SPAN margin for derivatives.
const spanMultiplier = 1.5

// MarginInput is a position to be margined. Volatility is an annual percentage.
type MarginInput struct {
	Type       string  `mapstructure:"type"`
	Price      float64 `mapstructure:"price"`
	Quantity   float64 `mapstructure:"quantity"`
	LotSize    float64 `mapstructure:"lotSize"`
	Volatility float64 `mapstructure:"volatility"`
}

// MarginResult itemizes the margin components, rounded to paise.
type MarginResult struct {
	TotalValue       float64 `json:"totalValue" yaml:"totalValue"`
	VaRMargin        float64 `json:"varMargin" yaml:"varMargin"`
	ExposureMargin   float64 `json:"exposureMargin" yaml:"exposureMargin"`
	SpanMargin       float64 `json:"spanMargin" yaml:"spanMargin"`
	TotalMargin      float64 `json:"totalMargin" yaml:"totalMargin"`
	MarginPercentage float64 `json:"marginPercentage" yaml:"marginPercentage"`
}

// Margin sums VaR, exposure and (for derivatives) SPAN margin on the position value.
func Margin(in MarginInput) (*MarginResult, error) {
	var c validation.Collector
	c.OneOf("type", in.Type, TradeEquity, TradeFutures, TradeOptions)
	c.Positive("price", in.Price)
	c.Positive("quantity", in.Quantity)
	c.Integer("quantity", in.Quantity)
	c.Positive("lotSize", in.LotSize)
	c.Integer("lotSize", in.LotSize)
	c.Positive("volatility", in.Volatility)
	c.AtMost("volatility", in.Volatility, 100)
	if err := c.Err(); err != nil {
		return nil, err
	}

	value := in.Price * in.Quantity * in.LotSize
	varMargin := mathutil.ApplyPercentage(value, in.Volatility)
	exposure := value * exposureMargins[in.Type]
	span := 0.0
	if in.Type == TradeFutures || in.Type == TradeOptions {
		span = varMargin * spanMultiplier
	}
	total := varMargin + exposure + span

	return checkFinite(&MarginResult{
		TotalValue:       roundPaise(value),
		VaRMargin:        roundPaise(varMargin),
		ExposureMargin:   roundPaise(exposure),
		SpanMargin:       roundPaise(span),
		TotalMargin:      roundPaise(total),
		MarginPercentage: roundPaise(mathutil.CalculatePercentage(total, value)),
	})
}

// Purchase is one buy of a holding.
type Purchase struct {
	Price    float64 `mapstructure:"price" json:"price" yaml:"price"`
	Quantity float64 `mapstructure:"quantity" json:"quantity" yaml:"quantity"`
}

// StockAverageInput is a list of purchases and, optionally, the current market price.
type StockAverageInput struct {
	Purchases    []Purchase `mapstructure:"purchases"`
	CurrentPrice *float64   `mapstructure:"currentPrice"`
}

// StockAverageResult is the cost basis of the holding and, with a current price, its P/L.
type StockAverageResult struct {
	TotalQuantity     float64  `json:"totalQuantity" yaml:"totalQuantity"`
	TotalInvestment   float64  `json:"totalInvestment" yaml:"totalInvestment"`
	AveragePrice      float64  `json:"averagePrice" yaml:"averagePrice"`
	CurrentValue      *float64 `json:"currentValue,omitempty" yaml:"currentValue,omitempty"`
	ProfitLoss        *float64 `json:"profitLoss,omitempty" yaml:"profitLoss,omitempty"`
	ProfitLossPercent *float64 `json:"profitLossPercent,omitempty" yaml:"profitLossPercent,omitempty"`
}

// StockAverage computes the quantity-weighted average purchase price.
func StockAverage(in StockAverageInput) (*StockAverageResult, error) {
	var c validation.Collector
	c.Check(len(in.Purchases) > 0, "purchases", "must contain at least one purchase")
	for i, p := range in.Purchases {
		c.Positive(fmt.Sprintf("purchases[%d].price", i), p.Price)
		c.Positive(fmt.Sprintf("purchases[%d].quantity", i), p.Quantity)
	}
	if in.CurrentPrice != nil {
		c.Positive("currentPrice", *in.CurrentPrice)
	}
	if err := c.Err(); err != nil {
		return nil, err
	}

	result := &StockAverageResult{}
	for _, p := range in.Purchases {
		result.TotalQuantity += p.Quantity
		result.TotalInvestment += p.Price * p.Quantity
	}
	result.AveragePrice = result.TotalInvestment / result.TotalQuantity

	if in.CurrentPrice != nil {
		value := *in.CurrentPrice * result.TotalQuantity
		pl := value - result.TotalInvestment
		plPercent := pl / result.TotalInvestment * constants.PercentageMultiplier
		result.CurrentValue = &value
		result.ProfitLoss = &pl
		result.ProfitLossPercent = &plPercent
	}
	return checkFinite(result)
}
