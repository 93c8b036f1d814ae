package saq

import "testing"

func TestDecodeFirstProduct(t *testing.T) {
	raw := []byte(`{
		"data": {
			"productSearch": {
				"items": [
					{
						"product": {
							"name": "Espolon Blanco",
							"canonical_url": "//www.saq.com/en/13713416",
							"price_range": {
								"minimum_price": {
									"final_price": {"value": 38.75, "currency": "CAD"},
									"regular_price": {"value": 41.00, "currency": "CAD"}
								}
							}
						},
						"productView": {
							"attributes": [
								{"name": "pays_origine", "value": "Mexico"},
								{"name": "format_contenant_ml", "value": "750"}
							]
						}
					},
					{
						"product": {"name": "Second Result", "canonical_url": "//other"}
					}
				]
			}
		}
	}`)

	product, err := decodeFirstProduct(raw)
	if err != nil {
		t.Fatalf("expected decode, got error: %v", err)
	}
	if product == nil {
		t.Fatal("expected product, got nil")
	}
	if product.Name != "Espolon Blanco" {
		t.Errorf("expected first result, got %q", product.Name)
	}
	if product.URL != "https://www.saq.com/en/13713416" {
		t.Errorf("unexpected url %q", product.URL)
	}
	if product.Size != "750 ml" {
		t.Errorf("unexpected size %q", product.Size)
	}
	if product.PriceFinal.Value != 38.75 || product.PriceFinal.Currency != "CAD" {
		t.Errorf("unexpected final price %+v", product.PriceFinal)
	}
	if product.PriceRegular.Value != 41.00 {
		t.Errorf("unexpected regular price %+v", product.PriceRegular)
	}
}

func TestDecodeFirstProductNoResults(t *testing.T) {
	product, err := decodeFirstProduct([]byte(`{"data": {"productSearch": {"items": []}}}`))
	if err != nil {
		t.Fatalf("expected nil result, got error: %v", err)
	}
	if product != nil {
		t.Errorf("expected nil product, got %+v", product)
	}
}

func TestDecodeFirstProductMissingSize(t *testing.T) {
	raw := []byte(`{
		"data": {
			"productSearch": {
				"items": [
					{"product": {"name": "Mystery Bottle", "canonical_url": ""}}
				]
			}
		}
	}`)

	product, err := decodeFirstProduct(raw)
	if err != nil {
		t.Fatalf("expected decode, got error: %v", err)
	}
	if product.Size != "" {
		t.Errorf("expected empty size, got %q", product.Size)
	}
	if product.URL != "" {
		t.Errorf("expected empty url, got %q", product.URL)
	}
}

func TestDecodeFirstProductBadJSON(t *testing.T) {
	if _, err := decodeFirstProduct([]byte("not json")); err == nil {
		t.Error("expected error for invalid JSON")
	}
}
