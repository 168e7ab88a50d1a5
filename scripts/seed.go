package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("LEDGER_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3333"
	}

	client := &http.Client{Timeout: 10 * time.Second}

	if resp, err := client.Get(baseURL + "/health"); err != nil {
		log.Fatalf("Failed to reach ledger API at %s: %v", baseURL, err)
	} else {
		resp.Body.Close()
	}

	fmt.Printf("Connected to ledger API at %s\n", baseURL)

	customers := []struct {
		name    string
		cpf     string
		deposit float64
	}{
		{"Alice", "11111111111", 1000},
		{"Bob", "22222222222", 2500},
		{"Carol", "33333333333", 150.75},
		{"Dave", "44444444444", 0},
	}

	for _, c := range customers {
		status, err := post(client, baseURL+"/account", "", map[string]interface{}{
			"name": c.name,
			"cpf":  c.cpf,
		})
		if err != nil {
			log.Fatalf("Failed to create customer %s: %v", c.cpf, err)
		}
		if status != http.StatusCreated {
			fmt.Printf("Skipped customer %s (status %d)\n", c.cpf, status)
			continue
		}

		if c.deposit > 0 {
			status, err = post(client, baseURL+"/deposit", c.cpf, map[string]interface{}{
				"description": "opening deposit",
				"amount":      c.deposit,
			})
			if err != nil || status != http.StatusCreated {
				log.Fatalf("Failed to deposit for %s: status=%d err=%v", c.cpf, status, err)
			}
		}

		fmt.Printf("Seeded customer: %s (CPF: %s, Opening deposit: %.2f)\n", c.name, c.cpf, c.deposit)
	}

	fmt.Println("\nSeed completed successfully!")
	fmt.Println("You can now test the API with the cpf header set to any seeded CPF")
}

func post(client *http.Client, url, cpf string, body interface{}) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if cpf != "" {
		req.Header.Set("cpf", cpf)
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	return resp.StatusCode, nil
}
