// This is a tool for generating large article documents for testing.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"strings"

	"github.com/ErikKalkoken/jsoneditor/internal/jsonvalue"
	"github.com/ErikKalkoken/jsoneditor/internal/locator"
)

const (
	countDefault    = 1_000
	fileNameDefault = "articles.json"
)

var (
	countFlag = flag.Int("n", countDefault, "number of articles to generate")
	outFlag   = flag.String("o", fileNameDefault, "name of the output file")
)

var words = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel",
	"india", "juliett", "kilo", "lima", "mike", "november", "oscar", "papa",
}

func main() {
	flag.Parse()
	cfg := locator.DefaultConfig()
	fmt.Printf("Generating document with %d articles...\n", *countFlag)
	items := make([]jsonvalue.Value, 0, *countFlag)
	for i := range *countFlag {
		items = append(items, makeArticle(cfg, i+1))
	}
	doc := jsonvalue.NewObject(
		jsonvalue.Member{Key: cfg.ArrayKey, Value: jsonvalue.NewArray(items...)},
	)
	fmt.Println("Marshalling into JSON...")
	b, err := jsonvalue.MarshalIndent(doc)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Writing file: %s ...\n", *outFlag)
	if err := os.WriteFile(*outFlag, b, 0644); err != nil {
		log.Fatal(err)
	}
	fmt.Println("DONE")
}

func makeArticle(cfg locator.Config, n int) jsonvalue.Value {
	tags := make([]jsonvalue.Value, 0)
	for range rand.Intn(4) {
		tags = append(tags, jsonvalue.NewString(randomWord()))
	}
	return jsonvalue.NewObject(
		jsonvalue.Member{Key: cfg.IDKey, Value: jsonvalue.NewString(cfg.RecordID(fmt.Sprint(n)))},
		jsonvalue.Member{Key: "title", Value: jsonvalue.NewString(randomText(4))},
		jsonvalue.Member{Key: "body", Value: jsonvalue.NewString(randomText(40))},
		jsonvalue.Member{Key: "views", Value: jsonvalue.NewNumber(float64(rand.Intn(10_000)))},
		jsonvalue.Member{Key: "published", Value: jsonvalue.NewBool(rand.Intn(2) == 1)},
		jsonvalue.Member{Key: "tags", Value: jsonvalue.NewArray(tags...)},
		jsonvalue.Member{Key: "author", Value: jsonvalue.NewObject(
			jsonvalue.Member{Key: "name", Value: jsonvalue.NewString(randomWord())},
			jsonvalue.Member{Key: "email", Value: jsonvalue.NewNull()},
		)},
	)
}

func randomWord() string {
	return words[rand.Intn(len(words))]
}

func randomText(n int) string {
	s := make([]string, n)
	for i := range n {
		s[i] = randomWord()
	}
	return strings.Join(s, " ")
}
