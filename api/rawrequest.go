package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// The site endpoint rejects requests that do not look like they came from a
// browser on shadertoy.com.
const browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_10_3) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/43.0.2357.124 Safari/537.36"

// The site endpoint returns a slightly different shape than the API: a bare
// array of shaders, with input objects keyed by "type" instead of "ctype".
type rawShader struct {
	Info       Info            `json:"info"`
	RenderPass []rawRenderPass `json:"renderpass"`
}

type rawRenderPass struct {
	Inputs []rawInput `json:"inputs"`
	Code   string     `json:"code"`
	Name   string     `json:"name"`
	Type   string     `json:"type"`
}

type rawInput struct {
	Type    string `json:"type"`
	Channel int    `json:"channel"`
}

func (r rawShader) toShader() *Shader {
	s := &Shader{
		Info:       r.Info,
		RenderPass: make([]RenderPass, len(r.RenderPass)),
	}
	for i, pass := range r.RenderPass {
		inputs := make([]Input, len(pass.Inputs))
		for j, in := range pass.Inputs {
			inputs[j] = Input{Channel: in.Channel, CType: in.Type}
		}
		s.RenderPass[i] = RenderPass{
			Inputs: inputs,
			Code:   pass.Code,
			Name:   pass.Name,
			Type:   pass.Type,
		}
	}
	return s
}

// fetchRaw pulls a shader through the endpoint the Shadertoy site itself
// uses. The shader IDs travel as a JSON string inside a form value, e.g.
// s={"shaders":["XsXXDn"]}.
func (c *Client) fetchRaw(id string) (*Shader, error) {
	data := url.Values{}
	data.Set("s", fmt.Sprintf(`{"shaders":["%s"]}`, id))

	req, err := http.NewRequest("POST", c.siteURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", "https://www.shadertoy.com")
	req.Header.Set("Referer", "https://www.shadertoy.com/browse")
	req.Header.Set("Accept", "*/*")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("bad response status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var parsed []rawShader
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode raw shader JSON: %w", err)
	}
	if len(parsed) == 0 {
		return nil, fmt.Errorf("raw shader response is empty for %s", id)
	}
	return parsed[0].toShader(), nil
}
