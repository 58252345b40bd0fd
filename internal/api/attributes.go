package api

// --- Attribute Methods ---

// ListAttributes fetches the organization's custom attribute catalog.
func (c *Client) ListAttributes() ([]Attribute, error) {
	data, err := c.get("/api/attributes")
	if err != nil {
		return nil, err
	}
	return decodeList[Attribute](data)
}

// AssignAttributes mass-assigns attribute values to the given members.
func (c *Client) AssignAttributes(input AssignAttributesInput) (*AssignResult, error) {
	data, err := c.post("/api/attributes/assign", input)
	if err != nil {
		return nil, err
	}
	return decodeOne[AssignResult](data)
}
