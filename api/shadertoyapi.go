// Package api fetches shader sources from the Shadertoy website.
//
// Shaders published to the official API (https://www.shadertoy.com/api) are
// fetched there when an API key is available. Shaders that are public but
// not published to the API are fetched through the site endpoint the browser
// uses instead.
package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	defaultAPIURL  = "https://www.shadertoy.com/api/v1"
	defaultSiteURL = "https://www.shadertoy.com/shadertoy"
)

// Client fetches shaders from shadertoy.com by ID or URL.
type Client struct {
	apiURL  string
	siteURL string
	key     string
	http    *http.Client
	log     *log.Logger
}

// NewClient returns a Client. The key may be empty, in which case every
// fetch goes through the site endpoint.
func NewClient(key string, logger *log.Logger) *Client {
	return &Client{
		apiURL:  defaultAPIURL,
		siteURL: defaultSiteURL,
		key:     key,
		http:    &http.Client{},
		log:     logger,
	}
}

// Shader is the subset of a Shadertoy API response this program uses.
type Shader struct {
	Info       Info         `json:"info"`
	RenderPass []RenderPass `json:"renderpass"`
}

type Info struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

type RenderPass struct {
	Inputs []Input `json:"inputs"`
	Code   string  `json:"code"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
}

type Input struct {
	Channel int    `json:"channel"`
	CType   string `json:"ctype"`
}

type apiResponse struct {
	Shader *Shader `json:"Shader"`
	Error  string  `json:"Error,omitempty"`
}

// ExtractID accepts either a bare shader ID or a shadertoy.com URL such as
// https://www.shadertoy.com/view/XsXXDn and returns the ID.
func ExtractID(idOrURL string) string {
	if !strings.Contains(idOrURL, "/") {
		return idOrURL
	}
	return path.Base(strings.TrimSuffix(idOrURL, "/"))
}

// Fetch retrieves a shader by ID or URL. When the client has an API key it
// tries the official API first and falls back to the site endpoint, since
// the API only serves shaders published as public+api.
func (c *Client) Fetch(idOrURL string) (*Shader, error) {
	id := ExtractID(idOrURL)
	if c.key == "" {
		c.log.Debug("no shadertoy api key, using site endpoint", "shader", id)
		return c.fetchRaw(id)
	}
	shader, err := c.fetchAPI(id)
	if err != nil {
		c.log.Warn("shadertoy api fetch failed, trying site endpoint", "shader", id, "err", err)
		return c.fetchRaw(id)
	}
	return shader, nil
}

func (c *Client) fetchAPI(id string) (*Shader, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/shaders/%s", c.apiURL, id), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	q := req.URL.Query()
	q.Add("key", c.key)
	req.URL.RawQuery = q.Encode()

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to shadertoy API failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to load shader %s, status code: %d", id, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	var parsed apiResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode shader JSON: %w", err)
	}
	if parsed.Error != "" {
		return nil, fmt.Errorf("shadertoy API error for %s: %s", id, parsed.Error)
	}
	if parsed.Shader == nil {
		return nil, fmt.Errorf("invalid JSON response: 'Shader' key is missing")
	}
	return parsed.Shader, nil
}

// FragmentSource returns the shader's image pass prefixed with its common
// section, ready to hand to the program builder. Shaders that need buffer
// or sound passes, or channel inputs, are rejected.
func (s *Shader) FragmentSource() (string, error) {
	var common, image string
	haveImage := false
	for _, pass := range s.RenderPass {
		switch pass.Type {
		case "image":
			if len(pass.Inputs) > 0 {
				return "", fmt.Errorf("shader %s needs %d channel input(s), which are not supported", s.Info.ID, len(pass.Inputs))
			}
			image = pass.Code
			haveImage = true
		case "common":
			common = pass.Code
		default:
			return "", fmt.Errorf("shader %s uses a %s pass, which is not supported", s.Info.ID, pass.Type)
		}
	}
	if !haveImage {
		return "", fmt.Errorf("shader %s has no image pass", s.Info.ID)
	}
	return common + image, nil
}

// Title formats the shader's name and author the way Shadertoy displays it.
func (s *Shader) Title() string {
	return fmt.Sprintf(`"%s" by %s`, s.Info.Name, s.Info.Username)
}
