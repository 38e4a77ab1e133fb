package ibkr

import "encoding/xml"

// FlexStatementResponse is the reply to a Flex Web Service SendRequest call,
// and the error envelope returned while a statement is still being generated.
type FlexStatementResponse struct {
	XMLName       xml.Name `xml:"FlexStatementResponse"`
	Timestamp     string   `xml:"timestamp,attr"`
	Status        string   `xml:"Status"`        // Success or Fail
	ReferenceCode string   `xml:"ReferenceCode"` // Code to download the requested statement
	URL           string   `xml:"Url"`           // URL to download statement
	ErrorCode     *int     `xml:"ErrorCode"`
	ErrorMessage  *string  `xml:"ErrorMessage"`
}

// FlexQueryResponse is a Flex statement. Only the trade section is decoded.
type FlexQueryResponse struct {
	XMLName        xml.Name `xml:"FlexQueryResponse"`
	QueryName      string   `xml:"queryName,attr"`
	Type           string   `xml:"type,attr"`
	FlexStatements struct {
		FlexStatement []struct {
			AccountID string `xml:"accountId,attr"`
			FromDate  string `xml:"fromDate,attr"`
			ToDate    string `xml:"toDate,attr"`
			Trades    struct {
				Trade []Trade `xml:"Trade"`
			} `xml:"Trades"`
		} `xml:"FlexStatement"`
	} `xml:"FlexStatements"`
}

// Trade is one execution in a Flex statement.
// Quantity is signed (sells are negative) and IbCommission is reported as a negative cost.
type Trade struct {
	AssetCategory string  `xml:"assetCategory,attr"`
	Currency      string  `xml:"currency,attr"`
	Symbol        string  `xml:"symbol,attr"`
	Description   string  `xml:"description,attr"`
	Isin          string  `xml:"isin,attr"`
	Quantity      float64 `xml:"quantity,attr"`
	TradePrice    float64 `xml:"tradePrice,attr"`
	IbCommission  float64 `xml:"ibCommission,attr"`
	TransactionID string  `xml:"transactionID,attr"`
	TradeDate     string  `xml:"tradeDate,attr"`
	BuySell       string  `xml:"buySell,attr"`
	LevelOfDetail string  `xml:"levelOfDetail,attr"`
}

// Trades returns every trade of every statement in the response, in document order.
func (r FlexQueryResponse) Trades() []Trade {
	var trades []Trade
	for _, statement := range r.FlexStatements.FlexStatement {
		trades = append(trades, statement.Trades.Trade...)
	}
	return trades
}
