package api

import "fmt"

// --- Member Methods ---

// QueryMembers fetches the member directory, optionally filtered.
func (c *Client) QueryMembers(params QueryParams) ([]Member, error) {
	data, err := c.get(buildQuery("/api/members", params))
	if err != nil {
		return nil, err
	}
	return decodeList[Member](data)
}

// GetMember fetches a single member record.
func (c *Client) GetMember(id string) (*Member, error) {
	data, err := c.get(fmt.Sprintf("/api/members/%s", id))
	if err != nil {
		return nil, err
	}
	return decodeOne[Member](data)
}
