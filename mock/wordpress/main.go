// Package main runs a local stand-in for the WordPress REST API.
package main

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"
)

//go:embed posts.json
var postsJSON []byte

func main() {
	var posts []map[string]any
	if err := json.Unmarshal(postsJSON, &posts); err != nil {
		log.Fatalf("[Mock WordPress] Invalid fixture: %v", err)
	}

	byID := make(map[int]map[string]any, len(posts))
	for _, p := range posts {
		byID[int(p["id"].(float64))] = p
	}

	http.HandleFunc("GET /wp-json/wp/v2/posts", func(w http.ResponseWriter, r *http.Request) {
		latency()

		// WordPress pages by 10 unless per_page says otherwise.
		perPage := 10
		if n, err := strconv.Atoi(r.URL.Query().Get("per_page")); err == nil && n > 0 {
			perPage = n
		}
		perPage = min(perPage, len(posts))

		writeJSON(w, http.StatusOK, posts[:perPage])
		log.Printf("[Mock WordPress] %s %s - 200 OK (%d posts)", r.Method, r.URL.RequestURI(), perPage)
	})

	http.HandleFunc("GET /wp-json/wp/v2/posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		latency()

		id, err := strconv.Atoi(r.PathValue("id"))
		post, ok := byID[id]
		if err != nil || !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{
				"code":    "rest_post_invalid_id",
				"message": "Invalid post ID.",
				"data":    map[string]int{"status": http.StatusNotFound},
			})
			log.Printf("[Mock WordPress] %s %s - 404", r.Method, r.URL.Path)
			return
		}

		writeJSON(w, http.StatusOK, post)
		log.Printf("[Mock WordPress] %s %s - 200 OK", r.Method, r.URL.Path)
	})

	http.HandleFunc("GET /wp-json/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"name": "CAMP (mock)"})
	})

	log.Println("Mock WordPress running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

// latency simulates network latency (50-200ms).
func latency() {
	time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Mock WordPress] Write error: %v", err)
	}
}
