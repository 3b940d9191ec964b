package main

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/open-source-firmware/go-wdled/pkg/modepage"
	"github.com/open-source-firmware/go-wdled/pkg/wdled"
)

type metricCollector struct {
	m []prometheus.Metric
}

func (mc *metricCollector) Collect(c chan<- prometheus.Metric) {
	for _, m := range mc.m {
		c <- m
	}
}

func (mc *metricCollector) Describe(c chan<- *prometheus.Desc) {
}

func outputMetrics(out io.Writer, st *wdled.Status) error {
	var (
		mDriveInfo = prometheus.NewDesc(
			"wdled_drive_info",
			"Info metric regarding the inspected drive",
			[]string{"device", "vendor", "product", "revision"}, nil,
		)
		mLEDValue = prometheus.NewDesc(
			"wdled_led_value",
			"Raw LED control byte of the vendor mode page per page variant",
			[]string{"device", "variant"}, nil,
		)
		mLEDOn = prometheus.NewDesc(
			"wdled_led_on",
			"Boolean describing whether the current LED mode is on",
			[]string{"device"}, nil,
		)
	)
	mc := &metricCollector{}
	if id := st.Identity; id != nil {
		mc.m = append(mc.m,
			prometheus.MustNewConstMetric(mDriveInfo, prometheus.GaugeValue, 1,
				st.Device, id.Vendor, id.Product, id.Revision))
	}
	for _, v := range []struct {
		pc  modepage.PageControl
		val uint8
	}{
		{modepage.PageControlCurrent, st.LED.Current},
		{modepage.PageControlDefault, st.LED.Default},
		{modepage.PageControlSaved, st.LED.Saved},
	} {
		mc.m = append(mc.m,
			prometheus.MustNewConstMetric(mLEDValue, prometheus.GaugeValue, float64(v.val),
				st.Device, v.pc.String()))
	}
	on := float64(0)
	if st.LED.Current == modepage.LEDOn {
		on = 1
	}
	mc.m = append(mc.m, prometheus.MustNewConstMetric(mLEDOn, prometheus.GaugeValue, on, st.Device))

	reg := prometheus.NewPedanticRegistry()
	reg.MustRegister(mc)

	mfs, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if _, err := expfmt.MetricFamilyToText(out, mf); err != nil {
			return fmt.Errorf("failed to serialize metrics: %v", err)
		}
	}
	return nil
}
