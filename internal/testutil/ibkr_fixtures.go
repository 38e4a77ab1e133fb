package testutil

import (
	"fmt"
	"strings"
)

// FlexTrade is one <Trade> row of a generated Flex statement.
type FlexTrade struct {
	TransactionID string
	Symbol        string
	AssetCategory string
	TradeDate     string // yyyyMMdd
	Quantity      float64
	Price         float64
	Commission    float64 // Reported negative, as IBKR does
}

// CreateFlexStatementXML renders a minimal Flex statement holding trades.
//
// Example usage:
//
//	body := testutil.CreateFlexStatementXML(testutil.FlexTrade{
//	    TransactionID: "1001", Symbol: "AAPL", TradeDate: "20240115", Quantity: 10, Price: 150,
//	})
func CreateFlexStatementXML(trades ...FlexTrade) string {
	var rows strings.Builder
	for _, t := range trades {
		category := t.AssetCategory
		if category == "" {
			category = "STK"
		}
		fmt.Fprintf(&rows,
			`<Trade assetCategory=%q currency="USD" symbol=%q quantity="%g" tradePrice="%g" ibCommission="%g" transactionID=%q tradeDate=%q levelOfDetail="EXECUTION" />`+"\n",
			category, t.Symbol, t.Quantity, t.Price, t.Commission, t.TransactionID, t.TradeDate)
	}

	return `<FlexQueryResponse queryName="trades" type="AF">
<FlexStatements count="1">
<FlexStatement accountId="U1234567" fromDate="20240101" toDate="20241231">
<Trades>
` + rows.String() + `</Trades>
</FlexStatement>
</FlexStatements>
</FlexQueryResponse>`
}
