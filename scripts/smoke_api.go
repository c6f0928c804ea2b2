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
func prettyPrint(raw []byte) {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		fmt.Println(string(raw))
		return
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(string(b))
}

// Request helper
func sendRequest(method, url, token string, body interface{}) (*http.Response, []byte, error) {
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
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	return resp, respBody, err
}

func step(name string) {
	color.Cyan("\n=== %s ===", name)
}

func check(resp *http.Response, body []byte, err error) {
	if err != nil {
		color.Red("FAIL: %v", err)
		os.Exit(1)
	}
	if resp.StatusCode >= 400 {
		color.Red("FAIL: status %d", resp.StatusCode)
		prettyPrint(body)
		os.Exit(1)
	}
	color.Green("OK: status %d", resp.StatusCode)
	prettyPrint(body)
}

func extractData(body []byte) map[string]interface{} {
	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	_ = json.Unmarshal(body, &envelope)
	return envelope.Data
}

func main() {
	email := fmt.Sprintf("smoke-%d@example.com", os.Getpid())

	step("Register")
	resp, body, err := sendRequest("POST", "/auth/register", "", map[string]string{
		"email":     email,
		"password":  "smoke-password",
		"full_name": "Smoke Tester",
	})
	check(resp, body, err)

	step("Login")
	resp, body, err = sendRequest("POST", "/auth/login", "", map[string]string{
		"email":    email,
		"password": "smoke-password",
	})
	check(resp, body, err)
	token, _ := extractData(body)["token"].(string)
	if token == "" {
		color.Red("FAIL: no token in login response")
		os.Exit(1)
	}

	step("Create session")
	resp, body, err = sendRequest("POST", "/chatbot/session", token, map[string]string{})
	check(resp, body, err)
	sessionId, _ := extractData(body)["chat_session_id"].(string)

	step("Send chat")
	resp, body, err = sendRequest("POST", "/chatbot/chat", token, map[string]string{
		"chat_session_id": sessionId,
		"chat":            "Hello, what can you help me with?",
	})
	check(resp, body, err)

	step("Get history")
	resp, body, err = sendRequest("GET", "/chatbot/session/"+sessionId+"/history", token, nil)
	check(resp, body, err)

	step("Get profile")
	resp, body, err = sendRequest("GET", "/profile/", token, nil)
	check(resp, body, err)

	step("Retrieval query")
	resp, body, err = sendRequest("POST", "/retrieval/query", token, map[string]interface{}{
		"prompt": "anything indexed yet?",
		"top_k":  3,
	})
	check(resp, body, err)

	step("Delete session")
	resp, body, err = sendRequest("DELETE", "/chatbot/session", token, map[string]string{
		"chat_session_id": sessionId,
	})
	check(resp, body, err)

	color.Green("\nAll smoke checks passed")
}
