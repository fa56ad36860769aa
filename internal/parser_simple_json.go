package internal

import (
	"encoding/json"
	"fmt"
	"os"
)

// SimpleJSONFormat is a minimal JSON format for importing transaction logs
// Example:
//
//	{
//	  "transactions": [
//	    {"id": 1, "subscription_id": 3159, "amount": 4990, "date": "07/08/1986"},
//	    {"id": 2, "subscription_id": 3159, "amount": 4990, "date": "08/08/1986"}
//	  ]
//	}
type SimpleJSONFormat struct {
	Transactions []SimpleJSONTransaction `json:"transactions"`
}

type SimpleJSONTransaction struct {
	ID             int64  `json:"id"`
	SubscriptionID int64  `json:"subscription_id"`
	Amount         int64  `json:"amount"`
	Date           string `json:"date"` // MM/DD/YYYY format
}

// ParseSimpleJSON parses a JSON file in the simple JSON format
func ParseSimpleJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var jsonData SimpleJSONFormat
	if err := json.Unmarshal(data, &jsonData); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	records := make([]Record, 0, len(jsonData.Transactions))
	for i, tx := range jsonData.Transactions {
		date, err := ParseDate(tx.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %d: %w", i, err)
		}
		records = append(records, Record{
			RowID:        tx.ID,
			SubscriberID: tx.SubscriptionID,
			Amount:       tx.Amount,
			Date:         date,
		})
	}

	return records, nil
}

func init() {
	RegisterParser(SourceSimpleJSON, ParserFunc(ParseSimpleJSON))
}
