package main

import "github.com/killallgit/transcript-search/cmd"

// @title           Transcript Search API
// @version         1.0
// @description     Local API for importing podcast transcripts from exported files and searching them.
// @contact.name    API Support
// @contact.url     https://github.com/killallgit/transcript-search
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:8080
// @BasePath        /
func main() {
	cmd.Execute()
}
