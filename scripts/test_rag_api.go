package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/fatih/color"
)

const baseURL = "http://localhost:3000/api"

// Pretty print JSON helper
func prettyPrint(body []byte) {
	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		fmt.Println(string(body))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(body))
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url string, body interface{}) (*http.Response, []byte, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+url, bodyReader)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{} // generation can take a while, no timeout
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func main() {
	url := "https://en.wikipedia.org/wiki/Retrieval-augmented_generation"
	question := "What problem does retrieval augmented generation solve?"
	if len(os.Args) > 1 {
		url = os.Args[1]
	}
	if len(os.Args) > 2 {
		question = os.Args[2]
	}

	color.Cyan("=== 1. Ingest URL ===")
	resp, body, err := sendRequest("POST", "/ingestion/v1/url", map[string]string{"url": url})
	if err != nil {
		color.Red("Ingestion request failed: %v", err)
		os.Exit(1)
	}
	color.Yellow("Status: %d", resp.StatusCode)
	prettyPrint(body)

	color.Cyan("=== 2. Ask ===")
	resp, body, err = sendRequest("POST", "/rag/v1/ask", map[string]interface{}{
		"question": question,
		"language": "en",
	})
	if err != nil {
		color.Red("Ask request failed: %v", err)
		os.Exit(1)
	}
	color.Yellow("Status: %d", resp.StatusCode)
	prettyPrint(body)

	color.Cyan("=== 3. List sources ===")
	resp, body, err = sendRequest("GET", "/source/v1?limit=10", nil)
	if err != nil {
		color.Red("List request failed: %v", err)
		os.Exit(1)
	}
	color.Yellow("Status: %d", resp.StatusCode)
	prettyPrint(body)

	color.Green("Done.")
}
