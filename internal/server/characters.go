package server

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/importJL/GlyphWrAIte/internal/characters"
)

func (s *Server) listLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"languages": characters.Languages()})
}

func knownLanguage(c *gin.Context) (string, bool) {
	lang := c.Param("language")
	if !slices.Contains(characters.Languages(), lang) {
		notFound(c, "language")
		return "", false
	}
	return lang, true
}

func (s *Server) listCharacters(c *gin.Context) {
	lang, ok := knownLanguage(c)
	if !ok {
		return
	}
	if cat := c.Query("category"); cat != "" {
		list := characters.ByCategory(lang, cat)
		if list == nil {
			notFound(c, "category")
			return
		}
		c.JSON(http.StatusOK, gin.H{"characters": list})
		return
	}
	if d := characters.Difficulty(c.Query("difficulty")); d != "" {
		if !d.Valid() {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "unknown difficulty"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"characters": characters.ByDifficulty(lang, d)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": characters.ByLanguage(lang)})
}

func (s *Server) searchCharacters(c *gin.Context) {
	lang, ok := knownLanguage(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"characters": characters.Search(lang, c.Query("q"))})
}

func (s *Server) getCharacter(c *gin.Context) {
	lang, ok := knownLanguage(c)
	if !ok {
		return
	}
	info, found := characters.Lookup(lang, c.Param("character"))
	if !found {
		notFound(c, "character")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"character": info,
		"related":   characters.Related(lang, info.Character),
	})
}
