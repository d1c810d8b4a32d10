package service

import (
	"fmt"
	"strconv"

	"tradeguard/internal/domain"
	"tradeguard/internal/inference"
)

const marketDataPrompt = `Look up the following financial indicators in REAL TIME using the official sources:
1. VIX (volatility index): you must consult https://www.cnbc.com/quotes/.VIX
2. DXY (US dollar index): consult tradingview.com
3. Mini index (WIN): consult tradingview.com (expected value around 186,480.00)
4. Mini dollar (WDO): consult tradingview.com (expected value around 5.22)
5. DI (Brazilian interest rate futures): search DI1F29 or the nearest liquid maturity on B3/TradingView.
6. FX swap contracts: search the Banco Central do Brasil website or today's news about swap auctions.

Return the exact values you found as JSON: vix, dxy, di, dollar, index, swapContracts.
If you cannot find the exact number of contracts, estimate the financial volume of the announced auction.`

func marketDataSchema() *inference.Schema {
	return inference.Object(
		inference.Prop("vix", inference.Number()),
		inference.Prop("dxy", inference.Number()),
		inference.Prop("di", inference.Number()),
		inference.Prop("dollar", inference.Number()),
		inference.Prop("index", inference.Number()),
		inference.Prop("swapContracts", inference.Number()),
	)
}

func analysisPrompt(s domain.MarketSnapshot) string {
	return fmt.Sprintf(`Analyze the following Brazilian and global market data:
- VIX: %s (global fear)
- DXY: %s (dollar strength)
- DI: %s%% (cost of money / Brazil risk)
- WIN: %s pts (mini index)
- WDO: R$ %s (mini dollar)
- FX swap: %d contracts (BCB intervention)

SIGNAL RULES:
1. BUY INDEX: if VIX is falling, DXY is falling and DI is stable or falling, the indicators are ALIGNED for a BUY on the index.
2. DOLLAR TRADE (BCB HEDGE): evaluate the swap contracts. If the dollar is rising and the central bank announced FX swaps, it is hedging (selling dollars to provide liquidity). Signal SELL dollar if the central bank comes in heavily. If the dollar rises and there is no swap, it may be a BUY dollar signal until the central bank acts.

Return two signals (INDEX and DOLLAR) as JSON, justifying each one by the alignment of these indicators.`,
		num(s.VIX), num(s.DXY), num(s.DIRate), num(s.Index), num(s.Dollar), s.SwapContracts)
}

func signalsSchema() *inference.Schema {
	return inference.ArrayOf(inference.Object(
		inference.Prop("asset", inference.Enum(string(domain.AssetIndex), string(domain.AssetDollar))),
		inference.Prop("action", inference.Enum(string(domain.ActionBuy), string(domain.ActionSell), string(domain.ActionNeutral))),
		inference.Prop("reasoning", inference.String()),
		inference.Prop("confidence", inference.Number()),
		inference.Prop("timestamp", inference.String()),
	))
}

func interventionPrompt(s domain.MarketSnapshot) string {
	return fmt.Sprintf(`Analyze the FX intervention situation of the Banco Central do Brasil:
- Dollar value (WDO): R$ %s
- Swap contracts detected: %d

The BCB usually intervenes when the dollar rises too fast or reaches stress levels.
Based on this data, describe whether there are signs of active intervention or whether the market is calm.
Be brief and direct.`, num(s.Dollar), s.SwapContracts)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
