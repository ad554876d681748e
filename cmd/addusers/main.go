// Command addusers injects extra customers into a running simulation
// through the admin API.  It logs in with the admin password (or uses a
// token given directly) and posts the requested count; the new customers
// join at the next day start.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

func main() {
	var (
		url      = flag.String("url", "http://localhost:8080", "base URL of the running server")
		count    = flag.Int("count", 1, "number of customers to add")
		token    = flag.String("token", "", "admin access token (skips login)")
		password = flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password used to log in")
	)
	flag.Parse()

	client := &http.Client{Timeout: 10 * time.Second}

	bearer := *token
	if bearer == "" {
		if *password == "" {
			log.Fatal("either -token or -password (or ADMIN_PASSWORD) is required")
		}
		var err error
		bearer, err = login(client, *url, *password)
		if err != nil {
			log.Fatalf("login failed: %v", err)
		}
	}

	total, err := addCustomers(client, *url, bearer, *count)
	if err != nil {
		log.Fatalf("add customers failed: %v", err)
	}
	fmt.Printf("added %d customers, %d total from next day\n", *count, total)
}

func login(client *http.Client, base, password string) (string, error) {
	body, _ := json.Marshal(map[string]string{"password": password})
	resp, err := client.Post(base+"/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %s: %s", resp.Status, readBody(resp.Body))
	}
	var out struct {
		Access struct {
			Token string `json:"token"`
		} `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Access.Token == "" {
		return "", fmt.Errorf("no token in response")
	}
	return out.Access.Token, nil
}

func addCustomers(client *http.Client, base, bearer string, count int) (int, error) {
	body, _ := json.Marshal(map[string]int{"count": count})
	req, err := http.NewRequest(http.MethodPost, base+"/v1/customers", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		return 0, fmt.Errorf("unexpected status %s: %s", resp.Status, readBody(resp.Body))
	}
	var out struct {
		Total int `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, err
	}
	return out.Total, nil
}

func readBody(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	return string(b)
}
