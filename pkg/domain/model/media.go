/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2026-09-02 15:11:08
 * @LastEditTime: 2026-09-02 15:11:08
 * @LastEditors: 安知鱼
 */
package model

// MediaImage 图片资源
type MediaImage struct {
	URL     string `json:"url"`
	AltText string `json:"alt_text"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}
