package main

import (
	"flag"
	"net/http"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"dhe/calculator"
	"dhe/model"
	"dhe/recorder"
	"dhe/server"
)

var (
	configPath = flag.String("c", "conf/config.ini", "配置文件")
	loadPath   = flag.String("load", "conf/load.csv", "负荷曲线 t,P")
	outPath    = flag.String("o", "results.csv", "结果输出")
	plotPath   = flag.String("plot", "", "温度曲线图片，为空不输出")
	serveAddr  = flag.String("serve", "", "websocket 服务地址，如 :9000")
	verbose    = flag.Bool("v", false, "debug 日志")
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	if *serveAddr != "" {
		upgrader.CheckOrigin = func(r *http.Request) bool {
			return true
		}
		s := server.NewServer(*serveAddr, upgrader)
		log.Fatal(s.Serve())
	}

	env, err := model.LoadEnv(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	t, P, err := recorder.ReadLoadProfile(*loadPath)
	if err != nil {
		log.Fatal(err)
	}
	c, err := calculator.NewCalculator(env)
	if err != nil {
		log.Fatal(err)
	}
	results, err := c.CalculateProfile(t, P)
	if err != nil {
		log.Fatal(err)
	}

	// 插值后的负荷与结果对齐输出
	p := calculator.ResampleLoad(t, P, env.Dt)
	load := make([][]float64, len(results))
	for k := range load {
		load[k] = p
	}
	if err := recorder.WriteResults(*outPath, env.Dt, load, results); err != nil {
		log.Fatal(err)
	}
	log.WithField("path", *outPath).Info("结果已保存")
	if *plotPath != "" {
		if err := recorder.PlotTemperatures(*plotPath, env.Dt, results); err != nil {
			log.Fatal(err)
		}
	}
}
