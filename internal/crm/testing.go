package crm

// SetBaseURL overrides the CRM endpoint. Test use only.
func (c *Client) SetBaseURL(url string) {
	c.baseURL = url
}
